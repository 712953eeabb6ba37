package models

// Screen enumerates every renderable dashboard screen.
type Screen string

const (
	ScreenLogin           Screen = "login"
	ScreenDashboard       Screen = "dashboard"
	ScreenProjectList     Screen = "project_list"
	ScreenProjectCreate   Screen = "project_create"
	ScreenProjectDetail   Screen = "project_detail"
	ScreenInventoryList   Screen = "inventory_list"
	ScreenInventoryDetail Screen = "inventory_detail"
	ScreenPurchaseRequest Screen = "purchase_request"
	ScreenMaintenance     Screen = "maintenance"
	ScreenContacts        Screen = "contacts"
	ScreenProfile         Screen = "profile"
)

// AllScreens lists the screens in navigation order.
var AllScreens = []Screen{
	ScreenLogin,
	ScreenDashboard,
	ScreenProjectList,
	ScreenProjectCreate,
	ScreenProjectDetail,
	ScreenInventoryList,
	ScreenInventoryDetail,
	ScreenPurchaseRequest,
	ScreenMaintenance,
	ScreenContacts,
	ScreenProfile,
}

// ParseScreen resolves a navigation label into a Screen.
func ParseScreen(value string) (Screen, error) {
	for _, s := range AllScreens {
		if string(s) == value {
			return s, nil
		}
	}
	return "", ErrUnknownScreen
}
