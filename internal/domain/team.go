package domain

import "time"

// Team представляет команду пользователей
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LeaderID    string    `json:"leaderId"`
	MemberIDs   []string  `json:"memberIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasMember проверяет, входит ли пользователь в состав команды
func (t *Team) HasMember(userID string) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// EnsureLeaderMembership гарантирует инвариант "лидер всегда является
// участником": если лидера нет в списке участников, он добавляется.
// Вызывается хранилищем перед каждой записью состава команды.
func (t *Team) EnsureLeaderMembership() {
	if !t.HasMember(t.LeaderID) {
		t.MemberIDs = append(t.MemberIDs, t.LeaderID)
	}
}

// TeamDetails представляет команду с раскрытыми ссылками на пользователей
type TeamDetails struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Leader      UserRef   `json:"leader"`
	Members     []UserRef `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
