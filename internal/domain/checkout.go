package domain

import "time"

// Checkout transitions.
const (
	TransitionAddress        = "address"
	TransitionSelectShipping = "select_shipping"
	TransitionSelectPayment  = "select_payment"
	TransitionComplete       = "complete"
)

type transition struct {
	from []string
	to   string
}

var checkoutGraph = map[string]transition{
	TransitionAddress: {
		from: []string{CheckoutStateCart, CheckoutStateAddressed, CheckoutStateShippingSelected, CheckoutStatePaymentSelected},
		to:   CheckoutStateAddressed,
	},
	TransitionSelectShipping: {
		from: []string{CheckoutStateAddressed, CheckoutStateShippingSelected, CheckoutStatePaymentSelected},
		to:   CheckoutStateShippingSelected,
	},
	TransitionSelectPayment: {
		from: []string{CheckoutStateShippingSelected, CheckoutStatePaymentSelected},
		to:   CheckoutStatePaymentSelected,
	},
	TransitionComplete: {
		from: []string{CheckoutStatePaymentSelected},
		to:   CheckoutStateCompleted,
	},
}

// errTransitionNotAllowed reports a checkout step taken out of order.
func errTransitionNotAllowed(name, state string) error {
	return Errorf(EINVALID, "checkout."+name, "Order cannot transition %q from checkout state %q", name, state)
}

// CanTransition reports whether the checkout transition applies to the order.
func (o *Order) CanTransition(name string) bool {
	t, ok := checkoutGraph[name]
	if !ok || !o.IsCart() {
		return false
	}
	if name != TransitionAddress && o.IsEmpty() {
		return false
	}
	return contains(t.from, o.CheckoutState)
}

// ApplyTransition moves the order to the transition's target state.
// Completing also places the order.
func (o *Order) ApplyTransition(name string, now time.Time) error {
	if !o.CanTransition(name) {
		return errTransitionNotAllowed(name, o.CheckoutState)
	}
	o.CheckoutState = checkoutGraph[name].to

	if name == TransitionComplete {
		o.State = OrderStateNew
		o.PaymentState = PaymentStateAwaitingPayment
		o.ShippingState = ShipmentStateReady
		o.CheckoutCompletedAt = &now
		for i := range o.Shipments {
			o.Shipments[i].State = ShipmentStateReady
		}
		for i := range o.Payments {
			if o.Payments[i].State == PaymentStateCart {
				o.Payments[i].State = PaymentStateNew
			}
		}
	}
	o.UpdatedAt = now
	return nil
}

// ResetCheckout sends the order back to the cart step. Cart mutations do
// this so totals are confirmed again before completion.
func (o *Order) ResetCheckout() {
	if o.IsCart() && o.CheckoutState != CheckoutStateCart {
		if o.ShippingAddress != nil {
			o.CheckoutState = CheckoutStateAddressed
			return
		}
		o.CheckoutState = CheckoutStateCart
	}
}
