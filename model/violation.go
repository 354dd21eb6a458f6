package model

// Severity ranks how serious a single violation is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ViolationType identifies which detector produced a violation.
type ViolationType string

const (
	ViolationSpam            ViolationType = "spam"
	ViolationDuplicateSpam   ViolationType = "duplicate_spam"
	ViolationInvite          ViolationType = "invite"
	ViolationExternalLink    ViolationType = "external_link"
	ViolationCapsFlood       ViolationType = "caps_flood"
	ViolationEmojiFlood      ViolationType = "emoji_flood"
	ViolationMentionSpam     ViolationType = "mention_spam"
	ViolationEveryoneMention ViolationType = "everyone_mention"
	ViolationNSFWContent     ViolationType = "nsfw_content"
	ViolationZalgoText       ViolationType = "zalgo_text"
)

// Violation is a single detector finding for one message. Violations are
// consumed immediately by the escalation engine and never stored.
type Violation struct {
	Type     ViolationType
	Severity Severity
	Details  string
}
