// Package project holds the collaboration project records shared with the
// REST API and the participant selection used when assigning tasks.
package project

import "time"

// Project statuses
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusArchived   = "archived"
)

// Task statuses
const (
	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskDone       = "done"
	TaskArchived   = "archived"
	TaskBlocked    = "blocked"
)

// Task priorities
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Join request statuses
const (
	JoinPending  = "pending"
	JoinAccepted = "accepted"
	JoinRejected = "rejected"
)

const (
	CollaborationPublic  = "public"
	CollaborationPrivate = "private"
)

type (
	Participant struct {
		UserID         string `json:"userId"`
		Role           string `json:"role"`
		ProfilePicture string `json:"profilePicture"`
		Username       string `json:"username"`
		Email          string `json:"email"`
	}

	InvitedUser struct {
		UserID   string `json:"userId"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}

	JoinRequest struct {
		UserID         string `json:"userId"`
		Username       string `json:"username"`
		Message        string `json:"message"`
		ProfilePicture string `json:"profilePicture"`
		Email          string `json:"email"`
		Status         string `json:"status"`
	}

	Task struct {
		ID          string        `json:"id"`
		Title       string        `json:"title"`
		Description string        `json:"description"`
		Status      string        `json:"status"`
		Priority    string        `json:"priority"`
		AssignedTo  []Participant `json:"assignedTo"`
		DueDate     time.Time     `json:"dueDate"`
	}

	Comment struct {
		UserID   string `json:"userId"`
		UserName string `json:"userName"`
		Content  string `json:"content"`
	}

	Attachment struct {
		FileName string `json:"fileName"`
		URL      string `json:"url"`
	}

	Feedback struct {
		UserID  string  `json:"userId"`
		Rating  float64 `json:"rating"`
		Comment string  `json:"comment"`
	}

	Project struct {
		ID                string        `json:"id"`
		Title             string        `json:"title"`
		Description       string        `json:"description"`
		OwnerID           string        `json:"ownerId"`
		OwnerUsername     string        `json:"ownerUsername"`
		CollaborationType string        `json:"collaborationType"`
		SkillsNeeded      []string      `json:"skillsNeeded"`
		Industry          string        `json:"industry"`
		AcademicFields    []string      `json:"academicFields"`
		Status            string        `json:"status"`
		Participants      []Participant `json:"participants"`
		InvitedUsers      []InvitedUser `json:"invitedUsers"`
		JoinRequests      []JoinRequest `json:"joinRequests"`
		Tasks             []Task        `json:"tasks"`
		Progress          string        `json:"progress"` // free form, e.g. "50%" or "Milestone 2/4"
		Comments          []Comment     `json:"comments"`
		ChatRoomID        string        `json:"chatRoomId"`
		Attachments       []Attachment  `json:"attachments"`
		Feedback          []Feedback    `json:"feedback"`
	}
)

// IsParticipant reports whether userID takes part in the project.
func (p Project) IsParticipant(userID string) bool {
	for _, pt := range p.Participants {
		if pt.UserID == userID {
			return true
		}
	}
	return false
}
