package realtime

import (
	"fmt"
	"strings"

	"github.com/campusgrid/campus-chat/internal/models"
)

// Room names and conversation names are both derived from the same
// identity fields. Keeping every constructor here means the join side and
// the send side can never drift apart.

// CollegeRoom is the single room for announcement and dropbox: every
// authorized member of a college shares it.
func CollegeRoom(collegeID string) string {
	return fmt.Sprintf("college_%s", collegeID)
}

// CommunityRoom scopes messages to same-college, same-role peers.
func CommunityRoom(collegeID string, role models.Role) string {
	return fmt.Sprintf("college_%s_%s", collegeID, role)
}

// ClassroomRoom keys classroom fan-out by the member's role and batch.
func ClassroomRoom(collegeID string, role models.Role, batchName string) string {
	return fmt.Sprintf("college_%s_%s_%s", collegeID, role, batchName)
}

const classgroupPrefix = "classgroup_"

// Logical conversation names, unique per college.
const (
	AnnouncementConversation = "announcement"
	DropboxConversation      = "dropbox"
)

func CommunityConversation(role models.Role) string {
	return "community_" + string(role)
}

func ClassgroupConversation(batchName string) string {
	return classgroupPrefix + batchName
}

// ParseClassgroup reverses ClassgroupConversation; it is how the teacher
// send path recovers the target batch from a conversation record.
func ParseClassgroup(conversationName string) (string, bool) {
	if !strings.HasPrefix(conversationName, classgroupPrefix) {
		return "", false
	}
	batch := conversationName[len(classgroupPrefix):]
	if batch == "" {
		return "", false
	}
	return batch, true
}
