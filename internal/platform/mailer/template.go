package mailer

import "fmt"

const verificationSubject = "Verify Your Email - NextGen"

func verificationText(code string) string {
	return fmt.Sprintf("Your NextGen verification code is: %s\n\nThe code expires in 10 minutes. If you didn't request it, you can ignore this email.", code)
}

func verificationHTML(code string) string {
	return fmt.Sprintf(`
		<h2>Welcome to NextGen!</h2>
		<p>Use the code below to verify your email address:</p>
		<p style="font-size: 28px; letter-spacing: 4px; font-weight: bold; color: #4CAF50;">%s</p>
		<p>The code expires in 10 minutes.</p>
		<p>If you didn't create an account with us, please ignore this email.</p>
	`, code)
}
