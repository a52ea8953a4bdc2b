package mailer

import (
	"bytes"
	"html/template"
	"time"
)

const (
	SubjectOTP     = "Welcome Onboard!"
	SubjectBooking = "Booking confirmed"
)

var otpTpl = template.Must(template.New("otp").Parse(`<!doctype html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Welcome to Main Bersama</h2>
  <p>Use this code to verify your account:</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
  <p>The code expires in {{.Minutes}} minutes and can be used once.</p>
</body>
</html>`))

var bookingTpl = template.Must(template.New("booking").Parse(`<!doctype html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Hi {{.Name}}, your booking is confirmed</h2>
  <p>Booking #{{.BookingID}} on field <b>{{.FieldName}}</b></p>
  <p>{{.Start}} until {{.End}}</p>
  <p>Share the booking ID so friends can join.</p>
</body>
</html>`))

func OTPVerification(to, code string, expiryMinutes int) Message {
	return Message{
		To:      to,
		Subject: SubjectOTP,
		HTML: render(otpTpl, map[string]any{
			"Code":    code,
			"Minutes": expiryMinutes,
		}),
	}
}

func BookingConfirmation(to, name string, bookingID int64, fieldName string, start, end time.Time) Message {
	const layout = "Mon, 02 Jan 2006 15:04"
	return Message{
		To:      to,
		Subject: SubjectBooking,
		HTML: render(bookingTpl, map[string]any{
			"Name":      name,
			"BookingID": bookingID,
			"FieldName": fieldName,
			"Start":     start.Format(layout),
			"End":       end.Format(layout),
		}),
	}
}

func render(t *template.Template, data any) string {
	var b bytes.Buffer
	// templates are fixed and data is flat, Execute cannot fail here
	_ = t.Execute(&b, data)
	return b.String()
}
