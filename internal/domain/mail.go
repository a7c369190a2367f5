package domain

const (
	MailTypeResetPassword = "reset_password"
	MailTypePlaced        = "placed"
	MailTypeWaitlisted    = "waitlisted"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type PlacementMailData struct {
	SwimmerName   string `json:"swimmerName"`
	ActivityName  string `json:"activityName"`
	Location      string `json:"location"`
	SlotLabel     string `json:"slotLabel"`
	LaneNumber    int32  `json:"laneNumber,omitempty"`
	WaitlistOrder int32  `json:"waitlistOrder,omitempty"` // 1-based position shown to parents
}
