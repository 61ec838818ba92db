package models

type CreateCheckoutSessionRequest struct {
	Plan PlanType `json:"plan" validate:"required,oneof=pro team"`
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type PortalSession struct {
	URL string `json:"url"`
}
