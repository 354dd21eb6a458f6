package automod

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"automod-bot/model"
)

var (
	inviteRegex      = regexp.MustCompile(`(?i)(https?://)?(www\.)?(discord\.gg|discord(app)?\.com/invite)/[a-zA-Z0-9-]+`)
	linkRegex        = regexp.MustCompile(`(?i)https?://[^\s]+`)
	customEmojiRegex = regexp.MustCompile(`<a?:\w+:\d+>`)
)

// nsfwKeywords is the fixed keyword list checked case-insensitively as
// substrings. First match wins; matches are not accumulated.
var nsfwKeywords = []string{
	"porn", "hentai", "nsfw", "xxx", "onlyfans", "nudes", "e-girl content",
}

const (
	capsMinLength     = 10
	capsRatio         = 0.70
	emojiFloodLimit   = 10
	mentionSpamLimit  = 5
	zalgoMinCombining = 3
)

// evaluateMessage runs every enabled detector against the message. Detectors
// never short-circuit each other; all findings are collected before any
// action is taken.
func (e *Engine) evaluateMessage(ev model.MessageEvent, cfg *model.AutomodConfig) []model.Violation {
	var violations []model.Violation

	if cfg.SpamEnabled || cfg.DuplicateEnabled {
		recent, duplicates := e.recordMessage(ev)
		if cfg.SpamEnabled && recent >= spamThreshold {
			violations = append(violations, model.Violation{
				Type:     model.ViolationSpam,
				Severity: model.SeverityMedium,
				Details:  fmt.Sprintf("%d messages in %s", recent, spamWindow),
			})
		}
		if cfg.DuplicateEnabled && duplicates >= duplicateThreshold {
			violations = append(violations, model.Violation{
				Type:     model.ViolationDuplicateSpam,
				Severity: model.SeverityHigh,
				Details:  fmt.Sprintf("identical message sent %d times in %s", duplicates, duplicateWindow),
			})
		}
	}

	invites := 0
	if cfg.InviteEnabled || cfg.LinkEnabled {
		invites = len(inviteRegex.FindAllString(ev.Content, -1))
	}
	if cfg.InviteEnabled && invites > 0 {
		violations = append(violations, model.Violation{
			Type:     model.ViolationInvite,
			Severity: model.SeverityHigh,
			Details:  "message contains a server invite link",
		})
	}
	if cfg.LinkEnabled {
		if links := len(linkRegex.FindAllString(ev.Content, -1)) - invites; links > 0 {
			violations = append(violations, model.Violation{
				Type:     model.ViolationExternalLink,
				Severity: model.SeverityMedium,
				Details:  fmt.Sprintf("%d external link(s)", links),
			})
		}
	}

	if cfg.CapsEnabled {
		if v, ok := checkCapsFlood(ev.Content); ok {
			violations = append(violations, v)
		}
	}
	if cfg.EmojiEnabled {
		if v, ok := checkEmojiFlood(ev.Content); ok {
			violations = append(violations, v)
		}
	}
	if cfg.MentionEnabled {
		violations = append(violations, checkMentions(ev)...)
	}
	if cfg.NSFWEnabled {
		if v, ok := checkNSFW(ev.Content); ok {
			violations = append(violations, v)
		}
	}
	if cfg.ZalgoEnabled {
		if v, ok := checkZalgo(ev.Content); ok {
			violations = append(violations, v)
		}
	}

	return violations
}

// recordMessage appends the message to the author's window, prunes everything
// past the duplicate horizon and reports how many entries fall inside the
// spam horizon and how many duplicate the new content. The append and both
// counts happen under one lock so a burst is never double-counted.
func (e *Engine) recordMessage(ev model.MessageEvent) (recent, duplicates int) {
	now := e.now()
	key := userKey{GuildID: ev.GuildID, UserID: ev.AuthorID}

	e.messagesMu.Lock()
	defer e.messagesMu.Unlock()

	w := e.messages[key]
	if w == nil {
		w = &messageWindow{}
		e.messages[key] = w
	}

	w.entries = append(w.entries, messageEntry{content: ev.Content, ts: now, channelID: ev.ChannelID})
	w.prune(now, duplicateWindow)

	for _, entry := range w.entries {
		if now.Sub(entry.ts) <= spamWindow {
			recent++
		}
		if entry.content == ev.Content {
			duplicates++
		}
	}
	return recent, duplicates
}

func (w *messageWindow) prune(now time.Time, horizon time.Duration) {
	cut := 0
	for cut < len(w.entries) && now.Sub(w.entries[cut].ts) > horizon {
		cut++
	}
	if cut > 0 {
		w.entries = append(w.entries[:0], w.entries[cut:]...)
	}
}

func checkCapsFlood(content string) (model.Violation, bool) {
	stripped := strings.Join(strings.Fields(content), "")
	if len([]rune(stripped)) <= capsMinLength {
		return model.Violation{}, false
	}

	letters, upper := 0, 0
	for _, r := range stripped {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 || float64(upper)/float64(letters) <= capsRatio {
		return model.Violation{}, false
	}
	return model.Violation{
		Type:     model.ViolationCapsFlood,
		Severity: model.SeverityLow,
		Details:  fmt.Sprintf("%d of %d letters uppercase", upper, letters),
	}, true
}

func checkEmojiFlood(content string) (model.Violation, bool) {
	count := len(customEmojiRegex.FindAllString(content, -1))
	for _, r := range customEmojiRegex.ReplaceAllString(content, "") {
		if isEmojiRune(r) {
			count++
		}
	}
	if count <= emojiFloodLimit {
		return model.Violation{}, false
	}
	return model.Violation{
		Type:     model.ViolationEmojiFlood,
		Severity: model.SeverityLow,
		Details:  fmt.Sprintf("%d emoji", count),
	}, true
}

func isEmojiRune(r rune) bool {
	return (r >= 0x1F300 && r <= 0x1FAFF) || (r >= 0x2600 && r <= 0x27BF)
}

func checkMentions(ev model.MessageEvent) []model.Violation {
	var violations []model.Violation

	distinct := make(map[string]struct{}, len(ev.MentionUserIDs)+len(ev.MentionRoleIDs))
	for _, id := range ev.MentionUserIDs {
		distinct[id] = struct{}{}
	}
	for _, id := range ev.MentionRoleIDs {
		distinct[id] = struct{}{}
	}
	if len(distinct) > mentionSpamLimit {
		violations = append(violations, model.Violation{
			Type:     model.ViolationMentionSpam,
			Severity: model.SeverityHigh,
			Details:  fmt.Sprintf("%d distinct mentions", len(distinct)),
		})
	}

	// @everyone/@here fires on its own, regardless of the mention count.
	if ev.MentionsEveryone {
		violations = append(violations, model.Violation{
			Type:     model.ViolationEveryoneMention,
			Severity: model.SeverityCritical,
			Details:  "message mentions @everyone or @here",
		})
	}
	return violations
}

func checkNSFW(content string) (model.Violation, bool) {
	lower := strings.ToLower(content)
	for _, kw := range nsfwKeywords {
		if strings.Contains(lower, kw) {
			return model.Violation{
				Type:     model.ViolationNSFWContent,
				Severity: model.SeverityHigh,
				Details:  fmt.Sprintf("matched keyword %q", kw),
			}, true
		}
	}
	return model.Violation{}, false
}

func checkZalgo(content string) (model.Violation, bool) {
	consecutive := 0
	for _, r := range content {
		if unicode.Is(unicode.Mn, r) {
			consecutive++
			if consecutive >= zalgoMinCombining {
				return model.Violation{
					Type:     model.ViolationZalgoText,
					Severity: model.SeverityMedium,
					Details:  "text contains stacked combining marks",
				}, true
			}
		} else {
			consecutive = 0
		}
	}
	return model.Violation{}, false
}
