package realtime

import (
	"context"
	"fmt"

	"github.com/campusgrid/campus-chat/internal/models"
)

// The four chat surfaces. Role allow-lists and room naming are fixed;
// they are part of the wire contract with the frontend.

func AnnouncementConfig() Config {
	return Config{
		Name:         "announcement",
		AllowedRoles: []models.Role{models.RoleAdmin, models.RoleSuperAdmin},
		Events:       Events{Send: "send_announcement", New: "new_announcement", Error: "error_occurred"},
		Join:         joinCollegeRoom,
		Target:       fixedTarget(func(models.Identity) string { return AnnouncementConversation }),
	}
}

func DropboxConfig() Config {
	return Config{
		Name: "dropbox",
		AllowedRoles: []models.Role{
			models.RoleAdmin, models.RoleSuperAdmin, models.RoleAccountant,
			models.RoleCounsellor, models.RoleExamCeller, models.RoleStudent, models.RoleTeacher,
		},
		Events: Events{Send: "send_dropbox", New: "new_dropbox", Error: "dropbox_error"},
		Join:   joinCollegeRoom,
		Target: fixedTarget(func(models.Identity) string { return DropboxConversation }),
	}
}

func CommunityConfig() Config {
	return Config{
		Name: "community",
		AllowedRoles: []models.Role{
			models.RoleAdmin, models.RoleSuperAdmin, models.RoleAccountant,
			models.RoleCounsellor, models.RoleExamCeller, models.RoleTeacher,
		},
		Events: Events{Send: "send_community", New: "new_community", Error: "error_occurred"},
		Join: func(ctx context.Context, d *Deps, ident models.Identity) (membership, error) {
			return membership{rooms: []string{CommunityRoom(ident.CollegeID, ident.Role)}}, nil
		},
		Target: fixedTarget(func(ident models.Identity) string { return CommunityConversation(ident.Role) }),
	}
}

func ClassroomConfig() Config {
	return Config{
		Name:         "classroom",
		AllowedRoles: []models.Role{models.RoleStudent, models.RoleTeacher},
		Events:       Events{Send: "send_classroom", New: "new_classroom", Error: "error_occurred"},
		Join:         joinClassroom,
		Target:       classroomTarget,
	}
}

func joinCollegeRoom(ctx context.Context, d *Deps, ident models.Identity) (membership, error) {
	return membership{rooms: []string{CollegeRoom(ident.CollegeID)}}, nil
}

// joinClassroom computes the role-dependent room set: students get the
// one room for their batch, teachers one room per assigned batch.
func joinClassroom(ctx context.Context, d *Deps, ident models.Identity) (membership, error) {
	switch ident.Role {
	case models.RoleStudent:
		profile, err := d.Students.Profile(ctx, ident.ID)
		if err != nil {
			return membership{}, asEventError(err, "student batch not found")
		}
		room := ClassroomRoom(ident.CollegeID, ident.Role, profile.BatchName)
		return membership{
			rooms:      []string{room},
			batch:      profile.BatchName,
			batchRooms: map[string]string{profile.BatchName: room},
		}, nil
	case models.RoleTeacher:
		batches, err := d.Batches.AssignedBatches(ctx, ident.ID)
		if err != nil {
			return membership{}, asEventError(err, "batch assignments not found")
		}
		if len(batches) == 0 {
			return membership{}, errNotFound("not assigned any batches")
		}
		sub := membership{batchRooms: make(map[string]string, len(batches))}
		for _, b := range batches {
			room := ClassroomRoom(ident.CollegeID, ident.Role, b)
			sub.rooms = append(sub.rooms, room)
			sub.batchRooms[b] = room
		}
		return sub, nil
	default:
		return membership{}, fmt.Errorf("unexpected classroom role %q", ident.Role)
	}
}

// fixedTarget serves the single-room namespaces: the conversation name is
// a pure function of the sender's identity, so resolution ignores client
// input entirely.
func fixedTarget(nameFor func(models.Identity) string) func(context.Context, *Deps, *Client, string) (target, error) {
	return func(ctx context.Context, d *Deps, c *Client, _ string) (target, error) {
		conv, err := d.Conversations.ResolveByName(ctx, c.Identity.CollegeID, nameFor(c.Identity))
		if err != nil {
			return target{}, err
		}
		return target{room: c.sub.rooms[0], conv: conv}, nil
	}
}

// classroomTarget handles the role split on send. Students resolve their
// own batch's conversation by name. Teachers may target any of their
// batches, so the target batch is recovered from the conversation record
// and checked against the assignment set.
func classroomTarget(ctx context.Context, d *Deps, c *Client, conversationID string) (target, error) {
	if c.Identity.Role == models.RoleStudent {
		conv, err := d.Conversations.ResolveByName(ctx, c.Identity.CollegeID, ClassgroupConversation(c.sub.batch))
		if err != nil {
			return target{}, err
		}
		return target{room: c.sub.rooms[0], conv: conv}, nil
	}

	conv, err := d.Conversations.GetByID(ctx, conversationID)
	if err != nil {
		return target{}, err
	}
	if conv.CollegeID != c.Identity.CollegeID {
		return target{}, errInvalid("invalid conversation")
	}
	batch, ok := ParseClassgroup(conv.Name)
	if !ok {
		return target{}, errInvalid("invalid conversation")
	}
	room, ok := c.sub.batchRooms[batch]
	if !ok {
		return target{}, errForbidden("not assigned to this batch")
	}
	return target{room: room, conv: conv}, nil
}
