package seed

import (
	"fmt"
	"time"

	"github.com/spec-kit/office-helpdesk/internal/domain"
)

const day = 24 * time.Hour

type ticketSeed struct {
	id          string
	title       string
	description string
	category    int
	status      domain.TicketStatus
	priority    domain.TicketPriority
	severity    domain.TicketSeverity
	upvotedBy   []string
	assignee    string
	reporter    string
	comments    int
	attachments int
	createdAgo  int
	updatedAgo  int
	resolvedAgo int
	dueIn       int
	tags        []string
	isPrivate   bool
	watchers    []string
}

var ticketSeeds = []ticketSeed{
	{
		id: "ticket1", title: "Computer won't turn on",
		description: "My desktop computer is not powering on. I've checked the power cable and it's properly connected.",
		category:    0, status: domain.TicketStatusOpen, priority: domain.TicketPriorityHigh, severity: domain.TicketSeverityMedium,
		upvotedBy: []string{"user1", "user3"}, assignee: "user2", reporter: "user1",
		comments: 3, attachments: 1, createdAgo: 12, updatedAgo: 2, dueIn: 5,
		tags: []string{"hardware", "desktop", "power"}, watchers: []string{"user5", "user7"},
	},
	{
		id: "ticket2", title: "Email client not syncing",
		description: "The email client is not syncing with the server. I've tried restarting the application but it didn't help.",
		category:    1, status: domain.TicketStatusInProgress, priority: domain.TicketPriorityMedium, severity: domain.TicketSeverityLow,
		upvotedBy: []string{"user4"}, assignee: "user5", reporter: "user4",
		comments: 2, createdAgo: 9, updatedAgo: 1, dueIn: 7,
		tags: []string{"software", "email", "sync"}, watchers: []string{"user2"},
	},
	{
		id: "ticket3", title: "Internet connection unstable",
		description: "The internet connection in the meeting room is unstable. It disconnects frequently during video calls.",
		category:    2, status: domain.TicketStatusReview, priority: domain.TicketPriorityHigh, severity: domain.TicketSeverityHigh,
		upvotedBy: []string{"user1", "user3", "user4"}, assignee: "user2", reporter: "user3",
		comments: 4, attachments: 2, createdAgo: 20, updatedAgo: 3, dueIn: 2,
		tags: []string{"network", "wifi", "meeting-room"}, watchers: []string{"user5", "user8"},
	},
	{
		id: "ticket4", title: "Broken chair in office",
		description: "The chair at desk #42 has a broken wheel and needs to be replaced or repaired.",
		category:    3, status: domain.TicketStatusResolved, priority: domain.TicketPriorityLow, severity: domain.TicketSeverityLow,
		upvotedBy: []string{"user2"}, assignee: "user5", reporter: "user1",
		comments: 2, attachments: 1, createdAgo: 15, updatedAgo: 11, resolvedAgo: 11,
		tags: []string{"facilities", "furniture", "repair"},
	},
	{
		id: "ticket5", title: "Request for new software license",
		description: "I need a license for Adobe Photoshop for the upcoming marketing campaign.",
		category:    1, status: domain.TicketStatusClosed, priority: domain.TicketPriorityMedium, severity: domain.TicketSeverityLow,
		assignee: "user2", reporter: "user4",
		comments: 3, createdAgo: 25, updatedAgo: 21, resolvedAgo: 22,
		tags: []string{"software", "license", "request"}, watchers: []string{"user1"},
	},
	{
		id: "ticket6", title: "Printer out of toner",
		description: "The printer on the 3rd floor is out of toner and needs to be replaced.",
		category:    0, status: domain.TicketStatusOpen, priority: domain.TicketPriorityMedium, severity: domain.TicketSeverityLow,
		upvotedBy: []string{"user3", "user4"}, reporter: "user3",
		comments: 1, createdAgo: 4, updatedAgo: 4, dueIn: 3,
		tags: []string{"hardware", "printer", "supplies"}, watchers: []string{"user7"},
	},
	{
		id: "ticket7", title: "Request for time off",
		description: "I would like to request time off from July 15-22 for a family vacation.",
		category:    4, status: domain.TicketStatusInProgress, priority: domain.TicketPriorityLow, severity: domain.TicketSeverityLow,
		assignee: "user5", reporter: "user1",
		comments: 2, createdAgo: 6, updatedAgo: 5, dueIn: 10,
		tags: []string{"hr", "time-off", "vacation"}, isPrivate: true, watchers: []string{"user4"},
	},
	{
		id: "ticket8", title: "Conference room projector not working",
		description: "The projector in the main conference room is not connecting to laptops.",
		category:    0, status: domain.TicketStatusOpen, priority: domain.TicketPriorityHigh, severity: domain.TicketSeverityMedium,
		upvotedBy: []string{"user1", "user2", "user3"}, assignee: "user2", reporter: "user5",
		comments: 3, attachments: 1, createdAgo: 3, updatedAgo: 1, dueIn: 1,
		tags: []string{"hardware", "projector", "conference-room"}, watchers: []string{"user6", "user8"},
	},
	{
		id: "ticket9", title: "Need access to shared drive",
		description: "I need access to the marketing shared drive to upload new campaign materials.",
		category:    5, status: domain.TicketStatusReview, priority: domain.TicketPriorityMedium, severity: domain.TicketSeverityLow,
		upvotedBy: []string{"user3"}, assignee: "user2", reporter: "user1",
		comments: 2, createdAgo: 8, updatedAgo: 2, dueIn: 4,
		tags: []string{"security", "access", "shared-drive"}, watchers: []string{"user2"},
	},
	{
		id: "ticket10", title: "Request for Excel training",
		description: "Our team needs advanced Excel training for data analysis tasks.",
		category:    6, status: domain.TicketStatusInProgress, priority: domain.TicketPriorityLow, severity: domain.TicketSeverityLow,
		upvotedBy: []string{"user1", "user3", "user8"}, assignee: "user5", reporter: "user8",
		comments: 3, attachments: 1, createdAgo: 18, updatedAgo: 6, dueIn: 14,
		tags: []string{"training", "excel", "data-analysis"}, watchers: []string{"user5"},
	},
}

var attachmentTypes = []string{"pdf", "docx", "xlsx", "png", "jpg"}

// Tickets returns the seeded ticket collection in display order. Upvote
// counts always equal the size of the voter set.
func Tickets(now time.Time) []domain.Ticket {
	users := Users(now)
	categories := Categories()

	tickets := make([]domain.Ticket, 0, len(ticketSeeds))
	for i, s := range ticketSeeds {
		ticket := domain.Ticket{
			ID:          s.id,
			Title:       s.title,
			Description: s.description,
			Category:    categories[s.category],
			Status:      s.status,
			Priority:    s.priority,
			Severity:    s.severity,
			Upvotes:     len(s.upvotedBy),
			UpvotedBy:   append([]string{}, s.upvotedBy...),
			Reporter:    userByID(users, s.reporter),
			Comments:    comments(s.id, s.comments, i, users, now),
			Attachments: attachments(s.id, s.attachments, i, users, now),
			CreatedAt:   now.Add(-time.Duration(s.createdAgo) * day),
			UpdatedAt:   now.Add(-time.Duration(s.updatedAgo) * day),
			Tags:        append([]string{}, s.tags...),
			IsPrivate:   s.isPrivate,
			Watchers:    append([]string{}, s.watchers...),
		}
		if s.assignee != "" {
			assignee := userByID(users, s.assignee)
			ticket.Assignee = &assignee
		}
		if s.resolvedAgo > 0 {
			resolved := now.Add(-time.Duration(s.resolvedAgo) * day)
			ticket.ResolvedAt = &resolved
		}
		if s.dueIn > 0 {
			due := now.Add(time.Duration(s.dueIn) * day)
			ticket.DueDate = &due
		}
		tickets = append(tickets, ticket)
	}
	return tickets
}

func comments(ticketID string, count, offset int, users []domain.User, now time.Time) []domain.Comment {
	out := make([]domain.Comment, 0, count)
	for i := 0; i < count; i++ {
		author := users[(offset+i)%len(users)]
		out = append(out, domain.Comment{
			ID:        fmt.Sprintf("comment-%s-%d", ticketID, i),
			Content:   fmt.Sprintf("This is a sample comment %d for the ticket. It provides additional context or updates.", i+1),
			Author:    author,
			CreatedAt: now.Add(-time.Duration(count-i) * day),
		})
	}
	return out
}

func attachments(ticketID string, count, offset int, users []domain.User, now time.Time) []domain.Attachment {
	out := make([]domain.Attachment, 0, count)
	for i := 0; i < count; i++ {
		ext := attachmentTypes[(offset+i)%len(attachmentTypes)]
		name := fmt.Sprintf("file-%d.%s", i+1, ext)
		out = append(out, domain.Attachment{
			ID:         fmt.Sprintf("attachment-%s-%d", ticketID, i),
			Name:       name,
			URL:        "/files/" + name,
			Size:       int64(250_000 * (offset + i + 1)),
			Type:       "application/" + ext,
			UploadedBy: users[(offset+i+3)%len(users)],
			UploadedAt: now.Add(-time.Duration(i+1) * day),
		})
	}
	return out
}
