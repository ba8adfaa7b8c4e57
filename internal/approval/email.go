package approval

import (
	"fmt"

	"github.com/stocknexus/stocknexus/internal/domain"
)

// approvalEmail builds the notification HTML. New accounts are pointed at
// the administrator password reset; existing accounts keep their own
// credentials.
func approvalEmail(req domain.RegistrationRequest, isNew bool, appURL string) string {
	intro := "Great news! Your access request has been approved. You can now log in with the credentials you created during sign up."
	hint := `If you forgot your password, ask an administrator to reset it for you.`
	if isNew {
		intro = "Your account has been approved! A temporary password has been created for you."
		hint = `<strong>Important:</strong> Ask your administrator to set your password before logging in.`
	}

	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #2563eb;">Welcome to StockNexus!</h1>
  <p>Hello %s,</p>
  <p>%s</p>
  <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p style="margin: 5px 0;"><strong>Email:</strong> %s</p>
    <p style="margin: 5px 0;"><strong>Department:</strong> %s</p>
    <p style="margin: 5px 0;"><strong>Role:</strong> %s</p>
  </div>
  <p style="color: #dc2626;">%s</p>
  <a href="%s/auth" style="display: inline-block; background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 20px 0;">
    Log In Now
  </a>
  <p style="color: #6b7280; font-size: 14px;">If you have any questions, please contact your administrator.</p>
</div>`,
		req.FullName, intro, req.Email, req.Department, req.RequestedRole, hint, appURL)
}
