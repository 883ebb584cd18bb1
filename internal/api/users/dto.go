package users

type ProfileResponse struct {
	Email    string  `json:"email"`
	Username *string `json:"username"`
	IsEditor bool    `json:"is_editor"`
	IsAdmin  bool    `json:"is_admin"`
}

type SignupRequest struct {
	Username      string `json:"username" form:"username" binding:"required"`
	AgreedToTerms bool   `json:"agreed_to_terms" form:"agreed_to_terms"`
	ReturnURL     string `json:"return_url" form:"return_url"`
}
