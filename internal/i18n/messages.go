package i18n

// Message keys.
const (
	MsgValidationFailed     = "Validation failed"
	MsgNotBlank             = "This value should not be blank."
	MsgInvalidEmail         = "This value is not a valid email address."
	MsgTooLong              = "This value is too long. It should have %d characters or less."
	MsgTooShort             = "This value is too short. It should have %d characters or more."
	MsgMinQuantity          = "Quantity of an order item cannot be lower than 1."
	MsgInvalidChoice        = "The value you selected is not a valid choice."
	MsgRatingRange          = "Rating must be between %d and %d."
	MsgCartNotFound         = "Cart with given token does not exist."
	MsgCartItemNotFound     = "Cart item does not exist."
	MsgProductNotFound      = "Product does not exist."
	MsgProductNotSimple     = "This product is not simple."
	MsgProductNotConfigured = "This product is not configurable."
	MsgVariantNotFound      = "Product variant does not exist."
	MsgCouponInvalid        = "Coupon is not valid."
	MsgCountryNotFound      = "Country does not exist."
	MsgProvinceNotInCountry = "Province does not belong to the country."
	MsgChannelNotFound      = "Channel does not exist."
	MsgEmailTaken           = "This email is already used."
	MsgPasswordMismatch     = "The passwords do not match."
	MsgShippingUnavailable  = "Shipping method is not available."
	MsgPaymentUnavailable   = "Payment method is not available."
	MsgInvalidCredentials   = "Invalid credentials."
)

var german = map[string]string{
	MsgValidationFailed:     "Validierung fehlgeschlagen",
	MsgNotBlank:             "Dieser Wert sollte nicht leer sein.",
	MsgInvalidEmail:         "Dieser Wert ist keine gültige E-Mail-Adresse.",
	MsgTooLong:              "Dieser Wert ist zu lang. Er sollte höchstens %d Zeichen haben.",
	MsgTooShort:             "Dieser Wert ist zu kurz. Er sollte mindestens %d Zeichen haben.",
	MsgMinQuantity:          "Die Menge einer Bestellposition darf nicht kleiner als 1 sein.",
	MsgInvalidChoice:        "Der gewählte Wert ist keine gültige Auswahl.",
	MsgRatingRange:          "Die Bewertung muss zwischen %d und %d liegen.",
	MsgCartNotFound:         "Warenkorb mit dem angegebenen Token existiert nicht.",
	MsgCartItemNotFound:     "Warenkorbposition existiert nicht.",
	MsgProductNotFound:      "Produkt existiert nicht.",
	MsgProductNotSimple:     "Dieses Produkt ist kein einfaches Produkt.",
	MsgProductNotConfigured: "Dieses Produkt ist nicht konfigurierbar.",
	MsgVariantNotFound:      "Produktvariante existiert nicht.",
	MsgCouponInvalid:        "Gutschein ist ungültig.",
	MsgCountryNotFound:      "Land existiert nicht.",
	MsgProvinceNotInCountry: "Die Provinz gehört nicht zu diesem Land.",
	MsgChannelNotFound:      "Kanal existiert nicht.",
	MsgEmailTaken:           "Diese E-Mail-Adresse wird bereits verwendet.",
	MsgPasswordMismatch:     "Die Passwörter stimmen nicht überein.",
	MsgShippingUnavailable:  "Versandart ist nicht verfügbar.",
	MsgPaymentUnavailable:   "Zahlungsart ist nicht verfügbar.",
	MsgInvalidCredentials:   "Ungültige Anmeldedaten.",
}
