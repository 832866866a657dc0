package form

// Messages shared by the password fields.
const (
	MsgPasswordRequired = "Please enter your password"
	MsgPasswordMin      = "Password must be at least 8 characters"
	MsgPasswordInvalid  = "Password must include at least one number, one uppercase, one lowercase and at least 8 characters"
	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordConfirm  = "Please confirm your password"
)

// Login is the sign-in form.
type Login struct {
	Email      string `form:"email"       validate:"required,email" msg:"required=Please enter your email address;email=Please enter a correct email address."`
	Password   string `form:"password"    validate:"required"       msg:"required=Please enter your password"`
	RememberMe bool   `form:"remember_me"`
}

// Register is the sign-up form.
type Register struct {
	Email           string `form:"email"            validate:"required,email"                    msg:"required=Please enter your email address;email=Please enter a correct email address."`
	Password        string `form:"password"         validate:"required,min=8,password_complexity" msg:"required=Please enter your password;min=Password must be at least 8 characters;password_complexity=Password must include at least one number, one uppercase, one lowercase and at least 8 characters"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"         msg:"required=Please confirm your password;eqfield=Passwords do not match"`
}

// ResetPassword is the new-password form of the reset flow.
type ResetPassword struct {
	Password        string `form:"password"         validate:"required,min=8,password_complexity" msg:"required=Please enter your password;min=Password must be at least 8 characters;password_complexity=Password must include at least one number, one uppercase, one lowercase and at least 8 characters"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"         msg:"required=Please confirm your password;eqfield=Passwords do not match"`
}

// SendAgain corrects a signer's contact before resending.
type SendAgain struct {
	Name  string `form:"name"  validate:"required"       msg:"required=Please provide the name of the recipient"`
	Email string `form:"email" validate:"required,email" msg:"required=Please provide the email of the recipient;email=Please enter a correct email address."`
}
