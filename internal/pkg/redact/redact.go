// redact — маскирование чувствительных значений в логах.
// Токены и пароли никогда не пишутся в лог целиком: для токена оставляем
// короткий префикс (достаточно для сопоставления в саппорте), пароль скрываем полностью.
package redact

// Token возвращает маску для bearer-токена: первые 6 символов + "***".
// Полный токен в логи не попадает никогда.
func Token(s string) string {
	const keep = 6
	if len(s) <= keep {
		return "***"
	}

	return s[:keep] + "***"
}

// Password возвращает фиксированную маску для пароля.
func Password() string { return "[REDACTED_PASSWORD]" }

// UserID маскирует идентификатор пользователя, оставляя первые 2 символа.
func UserID(s string) string {
	if len(s) <= 2 {
		return "***"
	}

	return s[:2] + "***"
}
