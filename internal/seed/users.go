// Package seed holds the demo reference data the stores start from.
// Every function returns fresh values so callers may mutate the result.
package seed

import (
	"time"

	"github.com/spec-kit/office-helpdesk/internal/domain"
)

const avatarPlaceholder = "/placeholder.svg?height=40&width=40"

// Users returns the static user directory. Dates relative to now are
// computed from now so the data stays deterministic under a fake clock.
func Users(now time.Time) []domain.User {
	lastActive := func(t time.Time) *time.Time { return &t }
	return []domain.User{
		{
			ID: "user1", Name: "John Doe", Email: "user@office.com", Avatar: avatarPlaceholder,
			Role: domain.UserRoleUser, Department: "Marketing", Position: "Marketing Specialist",
			Phone: "+1 (555) 123-4567", CreatedAt: date(2023, time.January, 15),
			LastActive: lastActive(now), IsActive: true,
		},
		{
			ID: "user2", Name: "Jane Smith", Email: "admin@office.com", Avatar: avatarPlaceholder,
			Role: domain.UserRoleAdmin, Department: "IT", Position: "IT Director",
			Phone: "+1 (555) 987-6543", CreatedAt: date(2022, time.December, 10),
			LastActive: lastActive(now), IsActive: true,
		},
		{
			ID: "user3", Name: "Robert Johnson", Email: "robert@office.com", Avatar: avatarPlaceholder,
			Role: domain.UserRoleUser, Department: "Finance", Position: "Financial Analyst",
			Phone: "+1 (555) 234-5678", CreatedAt: date(2023, time.March, 5),
			LastActive: lastActive(date(2023, time.June, 10)), IsActive: true,
		},
		{
			ID: "user4", Name: "Emily Davis", Email: "emily@office.com", Avatar: avatarPlaceholder,
			Role: domain.UserRoleUser, Department: "HR", Position: "HR Specialist",
			Phone: "+1 (555) 345-6789", CreatedAt: date(2023, time.February, 20),
			LastActive: lastActive(now), IsActive: true,
		},
		{
			ID: "user5", Name: "Michael Wilson", Email: "michael@office.com", Avatar: avatarPlaceholder,
			Role: domain.UserRoleManager, Department: "Operations", Position: "Operations Manager",
			Phone: "+1 (555) 456-7890", CreatedAt: date(2022, time.November, 15),
			LastActive: lastActive(now), IsActive: true,
		},
		{
			ID: "user6", Name: "Sarah Thompson", Email: "sarah@office.com", Avatar: avatarPlaceholder,
			Role: domain.UserRoleUser, Department: "Sales", Position: "Sales Representative",
			Phone: "+1 (555) 567-8901", CreatedAt: date(2023, time.April, 12),
			LastActive: lastActive(date(2023, time.July, 1)), IsActive: false,
		},
		{
			ID: "user7", Name: "David Brown", Email: "david@office.com", Avatar: avatarPlaceholder,
			Role: domain.UserRoleManager, Department: "Product", Position: "Product Manager",
			Phone: "+1 (555) 678-9012", CreatedAt: date(2022, time.October, 8),
			LastActive: lastActive(now), IsActive: true,
		},
		{
			ID: "user8", Name: "Jennifer Miller", Email: "jennifer@office.com", Avatar: avatarPlaceholder,
			Role: domain.UserRoleUser, Department: "Customer Support", Position: "Support Specialist",
			Phone: "+1 (555) 789-0123", CreatedAt: date(2023, time.May, 25),
			LastActive: lastActive(now), IsActive: true,
		},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func userByID(users []domain.User, id string) domain.User {
	for _, u := range users {
		if u.ID == id {
			return u
		}
	}
	panic("seed: unknown user " + id)
}
