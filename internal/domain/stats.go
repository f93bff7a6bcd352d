package domain

import "time"

// CategoryCount pairs a category name with a ticket count.
type CategoryCount struct {
	CategoryID string `json:"categoryId"`
	Category   string `json:"category"`
	Count      int    `json:"count"`
}

// PriorityCount pairs a priority with a ticket count.
type PriorityCount struct {
	Priority TicketPriority `json:"priority"`
	Count    int            `json:"count"`
}

// StatusCount pairs a status with a ticket count.
type StatusCount struct {
	Status TicketStatus `json:"status"`
	Count  int          `json:"count"`
}

// Activity is one entry of the recent activity stream.
type Activity struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	User      string    `json:"user"`
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
}

// DashboardStats summarizes ticket flow for dashboards.
type DashboardStats struct {
	TotalTickets          int             `json:"totalTickets"`
	OpenTickets           int             `json:"openTickets"`
	ResolvedTickets       int             `json:"resolvedTickets"`
	AverageResolutionTime float64         `json:"averageResolutionTime"`
	TicketsByCategory     []CategoryCount `json:"ticketsByCategory"`
	TicketsByPriority     []PriorityCount `json:"ticketsByPriority"`
	TicketsByStatus       []StatusCount   `json:"ticketsByStatus"`
	RecentActivity        []Activity      `json:"recentActivity"`
}
