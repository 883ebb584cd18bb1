package explorations

type CreateRequest struct {
	Title     string `json:"title" form:"title" binding:"required"`
	Category  string `json:"category" form:"category"`
	Objective string `json:"objective" form:"objective"`
}

type AssignRoleRequest struct {
	NewMemberEmail string `json:"new_member_email"`
	NewMemberID    uint   `json:"new_member_id"`
	NewMemberRole  string `json:"new_member_role" binding:"required"`
}
