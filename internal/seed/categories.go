package seed

import "github.com/spec-kit/office-helpdesk/internal/domain"

// Categories returns the seeded categories. ItemCount is display data only.
func Categories() []domain.Category {
	return []domain.Category{
		{ID: "cat1", Name: "Hardware", Description: "Issues related to physical equipment", Color: "#E8F5E8", Icon: "laptop", ItemCount: 12},
		{ID: "cat2", Name: "Software", Description: "Issues related to applications and programs", Color: "#F0E6FF", Icon: "code", ItemCount: 18},
		{ID: "cat3", Name: "Network", Description: "Issues related to connectivity and internet", Color: "#E6F3FF", Icon: "wifi", ItemCount: 8},
		{ID: "cat4", Name: "Facilities", Description: "Issues related to office space and amenities", Color: "#FFE5E5", Icon: "building", ItemCount: 5},
		{ID: "cat5", Name: "HR", Description: "Issues related to human resources", Color: "#F5F5F7", Icon: "users", ItemCount: 7},
		{ID: "cat6", Name: "Security", Description: "Issues related to security and access control", Color: "#FFF3E0", Icon: "shield", ItemCount: 4},
		{ID: "cat7", Name: "Training", Description: "Requests for training and skill development", Color: "#E0F7FA", Icon: "graduation-cap", ItemCount: 6},
	}
}
