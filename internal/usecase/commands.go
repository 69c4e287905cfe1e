package usecase

import "strings"

const (
	cmdPaymentStatus = "/paymentstatus"
	cmdHelp          = "/help"
	cmdStart         = "/start"
	cmdMenu          = "/menu"
)

// parseCommand returns the lower-cased command in the first word of text.
// A "/cmd@name" suffix must name this bot; commands for other bots are
// reported as not a command.
func parseCommand(text, botUsername string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", false
	}
	cmd, target, addressed := strings.Cut(fields[0], "@")
	if addressed && botUsername != "" && !strings.EqualFold(target, botUsername) {
		return "", false
	}
	return strings.ToLower(cmd), true
}

// mentionsBot reports whether text contains "@<botUsername>" as a whole word.
func mentionsBot(text, botUsername string) bool {
	if botUsername == "" {
		return false
	}
	needle := "@" + strings.ToLower(botUsername)
	lower := strings.ToLower(text)
	for i := 0; ; {
		j := strings.Index(lower[i:], needle)
		if j < 0 {
			return false
		}
		end := i + j + len(needle)
		if end == len(lower) || !isUsernameChar(lower[end]) {
			return true
		}
		i = end
	}
}

func isUsernameChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
