package model

// Importance levels reported by the mail backend.
const (
	ImportanceHigh   = "high"
	ImportanceNormal = "normal"
	ImportanceLow    = "low"
)

// EmailSummary is one row of a mailbox listing. All fields are produced
// by the backend; only the read flag changes, and only server-side.
type EmailSummary struct {
	ID             string   `json:"id" db:"id"`
	Subject        string   `json:"subject" db:"subject"`
	Sender         string   `json:"sender" db:"sender"`
	SenderEmail    string   `json:"sender_email" db:"sender_email"`
	Received       string   `json:"received" db:"received"`
	Preview        string   `json:"preview" db:"preview"`
	IsRead         bool     `json:"is_read" db:"is_read"`
	HasAttachments bool     `json:"has_attachments" db:"has_attachments"`
	Importance     string   `json:"importance" db:"importance"`
	Folder         string   `json:"folder,omitempty" db:"folder"`
	Categories     []string `json:"categories"`
}

// Recipient is a single name/address pair on an email.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Header is one raw message header.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AttachmentInfo describes one attachment on an email detail.
type AttachmentInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	IsInline    bool   `json:"is_inline"`
}

// EmailDetail is the full message fetched lazily on selection. The body
// is available in two encodings; HTML may be empty for plain messages.
type EmailDetail struct {
	ID                string           `json:"id"`
	Subject           string           `json:"subject"`
	Sender            Recipient        `json:"sender"`
	ToRecipients      []Recipient      `json:"to_recipients"`
	CcRecipients      []Recipient      `json:"cc_recipients"`
	BccRecipients     []Recipient      `json:"bcc_recipients"`
	Received          string           `json:"received"`
	Sent              string           `json:"sent"`
	BodyHTML          string           `json:"body_html"`
	BodyText          string           `json:"body_text"`
	IsRead            bool             `json:"is_read"`
	HasAttachments    bool             `json:"has_attachments"`
	Importance        string           `json:"importance"`
	InternetMessageID string           `json:"internet_message_id"`
	ConversationID    string           `json:"conversation_id"`
	Categories        []string         `json:"categories"`
	Attachments       []AttachmentInfo `json:"attachments"`
	Headers           []Header         `json:"headers"`
}

// Folder is one mailbox folder with its message counts.
type Folder struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TotalCount  int    `json:"total_count"`
	UnreadCount int    `json:"unread_count"`
}

// FolderStat is a per-folder line in the mailbox statistics.
type FolderStat struct {
	Name   string `json:"name"`
	Total  int    `json:"total"`
	Unread int    `json:"unread"`
}

// TopSender is one entry of the most-frequent-senders statistic.
type TopSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Count int    `json:"count"`
}

// MailboxStats aggregates mailbox-wide counters for the dashboard.
type MailboxStats struct {
	TotalEmails     int          `json:"total_emails"`
	TotalUnread     int          `json:"total_unread"`
	EmailsLast7Days int          `json:"emails_last_7_days"`
	FolderStats     []FolderStat `json:"folder_stats"`
	TopSenders      []TopSender  `json:"top_senders"`
}

// StoredAttachment describes an attachment the backend scraped to disk.
type StoredAttachment struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	ContentType  string `json:"content_type"`
	FileType     string `json:"file_type"`
	Size         int64  `json:"size"`
	EmailSubject string `json:"email_subject"`
	EmailSender  string `json:"email_sender"`
	EmailDate    string `json:"email_date"`
	SavedAt      string `json:"saved_at"`
	DownloadURL  string `json:"download_url"`
}
