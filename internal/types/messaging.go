package types

// AlertMessage is the wire envelope of an inbound queue message announcing
// that a layer produced new analysis results for a time window. JSON tags
// use snake_case to match the upstream producer.
type AlertMessage struct {
	LayerSlug string `json:"layer_slug" validate:"required"`
	BeginDate string `json:"begin_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// MailMessage is the envelope enqueued on the mail queue for asynchronous
// rendering and delivery by the mail service. This component never talks to
// an email provider directly. ID is an idempotency key the mail service uses
// to deduplicate redelivered messages.
type MailMessage struct {
	ID         string              `json:"id"`
	Template   string              `json:"template"`
	Data       NotificationPayload `json:"data"`
	Recipients []MailRecipient     `json:"recipients"`
	Sender     string              `json:"sender"`
}

// MailRecipient wraps a single destination address in the shape the mail
// service expects.
type MailRecipient struct {
	Address MailAddress `json:"address"`
}

// MailAddress is the innermost address record of a mail recipient.
type MailAddress struct {
	Email string `json:"email"`
}
