package models

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AddWasteRequest struct {
	WasteType string `json:"wasteType"`
}

type RedeemRequest struct {
	Item string  `json:"item"`
	Cost float64 `json:"cost"`
	Type string  `json:"type"`
}

// StatusResponse is the plain {status, error?} body shared by register and
// any endpoint failure. All API responses travel over HTTP 200; clients
// branch on the status field.
type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type LoginResponse struct {
	Status string `json:"status"`
	Token  string `json:"token,omitempty"`
	Role   string `json:"role,omitempty"`
}

type DashboardResponse struct {
	Status string   `json:"status"`
	User   *Account `json:"user"`
}

type AddWasteResponse struct {
	Status      string  `json:"status"`
	RewardAdded float64 `json:"rewardAdded"`
}

type RedeemResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type AdminStats struct {
	UserCount          int     `json:"userCount"`
	TotalWalletBalance float64 `json:"totalWalletBalance"`
	TotalEcoPoints     int64   `json:"totalEcoPoints"`
	TotalDeposits      int     `json:"totalDeposits"`
}

type AdminUsersResponse struct {
	Status string     `json:"status"`
	Users  []*Account `json:"users"`
	Stats  AdminStats `json:"stats"`
}
