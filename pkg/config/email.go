package config

// EmailConfig selects how candidate mail leaves the system. Provider
// "console" only logs, for local development.
type EmailConfig struct {
	Provider     string
	FromAddress  string
	FromName     string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

func loadEmailConfig() EmailConfig {
	return EmailConfig{
		Provider:     getEnv("EMAIL_PROVIDER", "console"),
		FromAddress:  getEnv("EMAIL_FROM_ADDRESS", "tuyendung@hireflow.vn"),
		FromName:     getEnv("EMAIL_FROM_NAME", "Phòng Nhân sự"),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
	}
}
