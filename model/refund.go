package model

type RefundEligibility struct {
	Eligible      bool    `json:"eligible"`
	RefundPercent float64 `json:"refundPercent"`
	RefundAmount  float64 `json:"refundAmount"`
	Reason        string  `json:"reason"`
}

type CancelPrivateBookingInput struct {
	Reason      string `json:"reason" validate:"omitempty,max=500"`
	IssueRefund bool   `json:"issueRefund"`
}
