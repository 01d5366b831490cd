package repo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/soulwax/isobel-web/internal/domain"
)

func seedDiscordUser(t *testing.T, db *gorm.DB, id, userID string) {
	t.Helper()
	du := domain.DiscordUser{ID: id, UserID: userID, Username: "someone"}
	if err := db.Create(&du).Error; err != nil {
		t.Fatalf("seed discord user %s: %v", id, err)
	}
}

func TestUpsertGuilds_InsertThenRefresh(t *testing.T) {
	db := newTestDB(t, &domain.Guild{})

	g := domain.Guild{ID: "123456789012345678", Name: "Jam Server", Icon: "a1", OwnerID: "100000000000000001", Permissions: "8"}
	if err := UpsertGuilds(context.Background(), db, []domain.Guild{g}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	g.Name = "Jam Server Renamed"
	g.Icon = "b2"
	g.Permissions = "32"
	if err := UpsertGuilds(context.Background(), db, []domain.Guild{g}); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	var got domain.Guild
	if err := db.First(&got, "id = ?", g.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "Jam Server Renamed" || got.Icon != "b2" || got.Permissions != "32" {
		t.Fatalf("refresh not applied: %+v", got)
	}

	var n int64
	if err := db.Model(&domain.Guild{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 guild row, got %d", n)
	}
}

func TestUpsertGuilds_EmptyIsNoop(t *testing.T) {
	db := newTestDB(t, &domain.Guild{})
	if err := UpsertGuilds(context.Background(), db, nil); err != nil {
		t.Fatalf("nil slice: %v", err)
	}
	if err := UpsertGuilds(context.Background(), db, []domain.Guild{}); err != nil {
		t.Fatalf("empty slice: %v", err)
	}
}

func TestUpsertMembers_RefreshesPermissions(t *testing.T) {
	db := newTestDB(t, &domain.Guild{}, &domain.DiscordUser{}, &domain.GuildMember{})
	seedGuild(t, db, "123456789012345678", "Jam Server")
	seedDiscordUser(t, db, "200000000000000002", "u1")

	m := domain.GuildMember{GuildID: "123456789012345678", UserID: "200000000000000002", Permissions: "0"}
	if err := UpsertMembers(context.Background(), db, []domain.GuildMember{m}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	m.Permissions = "32"
	if err := UpsertMembers(context.Background(), db, []domain.GuildMember{m}); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	got, err := FindMembership(context.Background(), db, m.GuildID, m.UserID)
	if err != nil {
		t.Fatalf("FindMembership: %v", err)
	}
	if got.Permissions != "32" {
		t.Fatalf("permissions not refreshed: %+v", got)
	}
}

func TestSyncGuildsForUser_Transactional(t *testing.T) {
	db := newTestDB(t, &domain.Guild{}, &domain.DiscordUser{}, &domain.GuildMember{})
	seedDiscordUser(t, db, "200000000000000002", "u1")

	guilds := []domain.Guild{
		{ID: "123456789012345678", Name: "Beta Server", OwnerID: "100000000000000001", Permissions: "8"},
		{ID: "223456789012345678", Name: "Alpha Server", OwnerID: "100000000000000001", Permissions: "0"},
	}
	members := []domain.GuildMember{
		{GuildID: "123456789012345678", UserID: "200000000000000002", Permissions: "8"},
		{GuildID: "223456789012345678", UserID: "200000000000000002", Permissions: "0"},
	}
	if err := SyncGuildsForUser(context.Background(), db, guilds, members); err != nil {
		t.Fatalf("SyncGuildsForUser: %v", err)
	}

	var gn, mn int64
	db.Model(&domain.Guild{}).Count(&gn)
	db.Model(&domain.GuildMember{}).Count(&mn)
	if gn != 2 || mn != 2 {
		t.Fatalf("expected 2 guilds and 2 memberships, got %d/%d", gn, mn)
	}
}

func TestListGuildsForDiscordUser_OrderedByName(t *testing.T) {
	db := newTestDB(t, &domain.Guild{}, &domain.DiscordUser{}, &domain.GuildMember{})
	seedDiscordUser(t, db, "200000000000000002", "u1")
	seedDiscordUser(t, db, "300000000000000003", "u2")

	guilds := []domain.Guild{
		{ID: "123456789012345678", Name: "Zulu", OwnerID: "100000000000000001"},
		{ID: "223456789012345678", Name: "Alpha", OwnerID: "100000000000000001"},
		{ID: "323456789012345678", Name: "Mike", OwnerID: "100000000000000001"},
	}
	members := []domain.GuildMember{
		{GuildID: "123456789012345678", UserID: "200000000000000002", Permissions: "8"},
		{GuildID: "223456789012345678", UserID: "200000000000000002", Permissions: "0"},
		// Belongs to a different user; must not leak into u1's list.
		{GuildID: "323456789012345678", UserID: "300000000000000003", Permissions: "8"},
	}
	if err := SyncGuildsForUser(context.Background(), db, guilds, members); err != nil {
		t.Fatalf("seed: %v", err)
	}

	list, err := ListGuildsForDiscordUser(context.Background(), db, "200000000000000002")
	if err != nil {
		t.Fatalf("ListGuildsForDiscordUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 guilds, got %d: %+v", len(list), list)
	}
	if list[0].Name != "Alpha" || list[1].Name != "Zulu" {
		t.Fatalf("expected name-ascending order, got %+v", list)
	}
	if list[0].Permissions != "0" || list[1].Permissions != "8" {
		t.Fatalf("membership permissions not projected: %+v", list)
	}
}

func TestListGuildsForDiscordUser_EmptyNotNil(t *testing.T) {
	db := newTestDB(t, &domain.Guild{}, &domain.DiscordUser{}, &domain.GuildMember{})

	list, err := ListGuildsForDiscordUser(context.Background(), db, "200000000000000002")
	if err != nil {
		t.Fatalf("ListGuildsForDiscordUser: %v", err)
	}
	if list == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(list) != 0 {
		t.Fatalf("expected no rows, got %+v", list)
	}
}

func TestFindMembership_NotFound(t *testing.T) {
	db := newTestDB(t, &domain.Guild{}, &domain.DiscordUser{}, &domain.GuildMember{})

	_, err := FindMembership(context.Background(), db, "123456789012345678", "200000000000000002")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
