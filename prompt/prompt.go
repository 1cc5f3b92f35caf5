// Package prompt recognises interactive credential requests in the output
// of a child process such as `git push`.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind 表示凭据提示的类型
type Kind int

const (
	// KindPassphrase ssh 私钥口令
	KindPassphrase Kind = iota + 1
	// KindPassword 普通密码
	KindPassword
	// KindUsername https 用户名，回显输入
	KindUsername
)

func (k Kind) String() string {
	switch k {
	case KindPassphrase:
		return "passphrase"
	case KindPassword:
		return "password"
	case KindUsername:
		return "username"
	}
	return "unknown"
}

// Match describes one recognised credential request.
type Match struct {
	Kind Kind
	// Subject is the key file for passphrases, or the account/URL for
	// passwords when the prompt names one.
	Subject string
	// Text is the prompt as printed by the child.
	Text string
}

// Label is the text shown next to the input field.
func (m Match) Label() string {
	switch m.Kind {
	case KindPassphrase:
		return fmt.Sprintf("Passphrase for key %s: ", m.Subject)
	case KindPassword:
		if m.Subject != "" {
			return fmt.Sprintf("Password for %s: ", m.Subject)
		}
	case KindUsername:
		return fmt.Sprintf("Username for %s: ", m.Subject)
	}
	return "Password: "
}

// Secret reports whether the answer must be masked.
func (m Match) Secret() bool {
	return m.Kind != KindUsername
}

var (
	// Enter passphrase for key '/home/u/.ssh/id_rsa':
	passphrasePattern = regexp.MustCompile(`Enter passphrase for key '([^']*)':`)
	// git@example.com's password:
	userPasswordPattern = regexp.MustCompile(`(\S+)'s password:`)
	// Username for 'https://example.com':
	usernamePattern = regexp.MustCompile(`Username for '([^']*)':`)
	// Password for 'https://user@example.com':
	urlPasswordPattern = regexp.MustCompile(`Password for '([^']*)':`)
	// bare Password: (sudo, some ssh builds)
	barePasswordPattern = regexp.MustCompile(`(?:^|\s)Password:`)
)

// Detect scans one output chunk. Chunks that contain no prompt yield ok=false.
func Detect(chunk string) (Match, bool) {
	if m := passphrasePattern.FindStringSubmatch(chunk); m != nil {
		return Match{Kind: KindPassphrase, Subject: m[1], Text: m[0]}, true
	}
	if m := usernamePattern.FindStringSubmatch(chunk); m != nil {
		return Match{Kind: KindUsername, Subject: m[1], Text: m[0]}, true
	}
	if m := userPasswordPattern.FindStringSubmatch(chunk); m != nil {
		return Match{Kind: KindPassword, Subject: m[1], Text: m[0]}, true
	}
	if m := urlPasswordPattern.FindStringSubmatch(chunk); m != nil {
		return Match{Kind: KindPassword, Subject: m[1], Text: m[0]}, true
	}
	if m := barePasswordPattern.FindString(chunk); m != "" {
		return Match{Kind: KindPassword, Text: strings.TrimSpace(m)}, true
	}
	return Match{}, false
}
