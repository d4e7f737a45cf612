// redact скрывает чувствительные данные перед записью в логи.
package redact

import "strings"

// Email редактирует адрес/логин вида local@domain: от локальной части
// остаются первые две руны, домен сохраняется целиком.
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := []rune(parts[0]), parts[1]
	if len(local) > 2 {
		return string(local[:2]) + "***@" + domain
	}

	return "***@" + domain
}

func Token() string    { return "[REDACTED_TOKEN]" }
func Password() string { return "[REDACTED_PASSWORD]" }
