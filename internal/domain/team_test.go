package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureLeaderMembership(t *testing.T) {
	t.Run("re-inserts absent leader", func(t *testing.T) {
		team := &Team{
			LeaderID:  "leader",
			MemberIDs: []string{"alice", "bob"},
		}

		team.EnsureLeaderMembership()

		assert.True(t, team.HasMember("leader"))
		assert.Len(t, team.MemberIDs, 3)
	})

	t.Run("keeps present leader without duplication", func(t *testing.T) {
		team := &Team{
			LeaderID:  "leader",
			MemberIDs: []string{"leader", "alice"},
		}

		team.EnsureLeaderMembership()

		assert.Equal(t, []string{"leader", "alice"}, team.MemberIDs)
	})

	t.Run("adds leader to empty membership", func(t *testing.T) {
		team := &Team{LeaderID: "leader"}

		team.EnsureLeaderMembership()

		assert.Equal(t, []string{"leader"}, team.MemberIDs)
	})
}

func TestHasMember(t *testing.T) {
	team := &Team{MemberIDs: []string{"alice", "bob"}}

	assert.True(t, team.HasMember("alice"))
	assert.False(t, team.HasMember("carol"))
}
