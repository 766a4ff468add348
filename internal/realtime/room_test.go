package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campusgrid/campus-chat/internal/models"
)

func TestRoomNaming(t *testing.T) {
	require.Equal(t, "college_c1", CollegeRoom("c1"))
	require.Equal(t, "college_c1_teacher", CommunityRoom("c1", models.RoleTeacher))
	require.Equal(t, "college_c1_student_CSE-2025", ClassroomRoom("c1", models.RoleStudent, "CSE-2025"))

	// joining twice with the same identity always yields the same room
	require.Equal(t,
		ClassroomRoom("c1", models.RoleStudent, "CSE-2025"),
		ClassroomRoom("c1", models.RoleStudent, "CSE-2025"))
}

func TestConversationNaming(t *testing.T) {
	require.Equal(t, "community_accountant", CommunityConversation(models.RoleAccountant))
	require.Equal(t, "classgroup_CSE-2025", ClassgroupConversation("CSE-2025"))
}

func TestParseClassgroup(t *testing.T) {
	tests := []struct {
		name  string
		batch string
		ok    bool
	}{
		{"classgroup_CSE-2025", "CSE-2025", true},
		{"classgroup_A", "A", true},
		{"classgroup_", "", false},
		{"announcement", "", false},
		{"community_teacher", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		batch, ok := ParseClassgroup(tt.name)
		require.Equal(t, tt.ok, ok, tt.name)
		require.Equal(t, tt.batch, batch, tt.name)
	}
}

func TestClassgroupRoundTrip(t *testing.T) {
	batch, ok := ParseClassgroup(ClassgroupConversation("ME-2024"))
	require.True(t, ok)
	require.Equal(t, "ME-2024", batch)
}
