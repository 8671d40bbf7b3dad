package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

// Email is a rendered message ready to send
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

var (
	otpTemplate = template.Must(template.New("otp").Parse(`<p>Hi {{.Name}},</p>
<p>Your verification code is <strong>{{.OTP}}</strong>.</p>
<p>The code expires in {{.ExpiresIn}}.</p>`))

	resetTemplate = template.Must(template.New("reset").Parse(`<p>Hi {{.Name}},</p>
<p>We received a request to reset your password. Use the link below to choose a new one:</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>The link expires in {{.ExpiresIn}}. If you did not ask for this, ignore this email.</p>`))

	enrollmentTemplate = template.Must(template.New("enrollment").Parse(`<p>Hi {{.Name}},</p>
<p>You are now enrolled in <strong>{{.CourseTitle}}</strong>.</p>
<p>Happy learning!</p>`))
)

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// OTPEmail renders the registration verification email
func OTPEmail(to, name, otp, expiresIn string) (*Email, error) {
	body, err := render(otpTemplate, map[string]string{"Name": name, "OTP": otp, "ExpiresIn": expiresIn})
	if err != nil {
		return nil, err
	}
	return &Email{To: to, Subject: "Verify your email", Body: body}, nil
}

// PasswordResetEmail renders the password reset link email
func PasswordResetEmail(to, name, link, expiresIn string) (*Email, error) {
	body, err := render(resetTemplate, map[string]string{"Name": name, "Link": link, "ExpiresIn": expiresIn})
	if err != nil {
		return nil, err
	}
	return &Email{To: to, Subject: "Reset your password", Body: body}, nil
}

// EnrollmentEmail renders the enrollment confirmation email
func EnrollmentEmail(to, name, courseTitle string) (*Email, error) {
	body, err := render(enrollmentTemplate, map[string]string{"Name": name, "CourseTitle": courseTitle})
	if err != nil {
		return nil, err
	}
	return &Email{To: to, Subject: fmt.Sprintf("Enrolled in %s", courseTitle), Body: body}, nil
}
