package project

import (
	"github.com/rogerjeasy/letusconnect/core"
)

const (
	titleRequiredMessage  = "Task title is required."
	noAssigneeMessage     = "Select at least one participant."
	notParticipantMessage = "Only project participants can be assigned."
	unknownRoleMessage    = "Select a role from the list."
)

// Assign drafts a task titled title for the participants of p picked by keys,
// each taking role. Problems are reported per field in a *core.ValidationError.
func (p Project) Assign(title string, keys []string, role string, roles []string) (Task, error) {
	var flds []core.FieldError
	title = core.CleanString(title)
	if title == "" {
		flds = append(flds, core.FieldError{Field: "title", Error: titleRequiredMessage})
	}
	if len(keys) == 0 {
		flds = append(flds, core.FieldError{Field: "assignedTo", Error: noAssigneeMessage})
	}
	for _, key := range keys {
		if !p.IsParticipant(key) {
			flds = append(flds, core.FieldError{Field: "assignedTo", Error: notParticipantMessage})
			break
		}
	}
	if !ValidRole(roles, role) {
		flds = append(flds, core.FieldError{Field: "role", Error: unknownRoleMessage})
	}
	if len(flds) > 0 {
		return Task{}, core.NewValidationError(nil, flds...)
	}

	assigned := SelectParticipants(p.Participants, keys)
	for i := range assigned {
		assigned[i].Role = role
	}
	return Task{
		Title:      title,
		Status:     TaskTodo,
		Priority:   PriorityMedium,
		AssignedTo: assigned,
	}, nil
}
