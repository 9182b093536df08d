package resource

// Document is one mock resource entry. AccessLevel and AccessibleBy are
// stamped per request for the authenticated caller.
type Document struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Type         string `json:"type"`
	CreatedAt    string `json:"created_at"`
	Sensitive    bool   `json:"sensitive,omitempty"`
	AccessLevel  string `json:"access_level,omitempty"`
	AccessibleBy string `json:"accessible_by,omitempty"`
}

// managedUser is one row of the mock user administration view.
type managedUser struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	LastLogin string `json:"last_login"`
	Status    string `json:"status"`
}

// Mock fixtures standing in for a real resource backend.
var (
	userDocuments = []Document{
		{
			ID:        1,
			Title:     "Personal Document 1",
			Content:   "This is a user-accessible document.",
			Type:      "document",
			CreatedAt: "2025-01-01T10:00:00Z",
		},
		{
			ID:        2,
			Title:     "User Report",
			Content:   "Monthly user activity report.",
			Type:      "report",
			CreatedAt: "2025-01-15T14:30:00Z",
		},
		{
			ID:        3,
			Title:     "Project Files",
			Content:   "Access to your project files and documents.",
			Type:      "files",
			CreatedAt: "2025-01-20T09:15:00Z",
		},
	}

	adminResources = []Document{
		{
			ID:        101,
			Title:     "System Configuration",
			Content:   "Critical system settings and configurations.",
			Type:      "config",
			CreatedAt: "2025-01-01T09:00:00Z",
			Sensitive: true,
		},
		{
			ID:        102,
			Title:     "User Management Dashboard",
			Content:   "Comprehensive user analytics and management tools.",
			Type:      "dashboard",
			CreatedAt: "2025-01-10T11:00:00Z",
			Sensitive: true,
		},
		{
			ID:        103,
			Title:     "System Logs",
			Content:   "Access to system logs and audit trails.",
			Type:      "logs",
			CreatedAt: "2025-01-25T16:45:00Z",
			Sensitive: true,
		},
	}

	managedUsers = []managedUser{
		{
			ID:        1,
			Email:     "user1@example.com",
			Name:      "Regular User",
			Role:      "user",
			LastLogin: "2025-01-30T10:30:00Z",
			Status:    "active",
		},
		{
			ID:        2,
			Email:     "admin@example.com",
			Name:      "Admin User",
			Role:      "admin",
			LastLogin: "2025-01-31T08:15:00Z",
			Status:    "active",
		},
		{
			ID:        3,
			Email:     "user2@example.com",
			Name:      "Another User",
			Role:      "user",
			LastLogin: "2025-01-29T14:45:00Z",
			Status:    "active",
		},
	}
)
