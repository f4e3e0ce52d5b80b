package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/photogram/internal/model"
	"github.com/d60-Lab/photogram/internal/testutil"
)

func tagNames(tags []model.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}

func TestParseTagNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseTagNames("a, a, b"))
	assert.Equal(t, []string{"Go", "go"}, ParseTagNames(" Go ,go,, "))
	assert.Empty(t, ParseTagNames(" , ,"))
}

func TestPostCreate_DedupTags(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")

	post := &model.Post{ID: uuid.NewString(), UserID: owner.ID, Image: "x.jpg"}
	require.NoError(t, repo.Create(ctx, post, ParseTagNames("a, a, b")))
	assert.ElementsMatch(t, []string{"a", "b"}, tagNames(post.Tags))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, tagNames(got.Tags))
	assert.Equal(t, int64(2), countRows(t, db, "post_tags"))
	assert.Equal(t, int64(2), countRows(t, db, "tags"))
}

func TestPostAddTags_ReusesExistingAndIgnoresDuplicates(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	tags := NewTagRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")

	existing, err := tags.FindOrCreate(ctx, "b")
	require.NoError(t, err)

	post := &model.Post{ID: uuid.NewString(), UserID: owner.ID, Image: "x.jpg"}
	require.NoError(t, repo.Create(ctx, post, []string{"a"}))
	require.NoError(t, repo.AddTags(ctx, post.ID, []string{"a", "b", "B"}))

	detail, err := repo.GetDetail(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "a", "b"}, tagNames(detail.Tags))
	assert.Equal(t, int64(3), countRows(t, db, "tags"))

	again, err := tags.FindOrCreate(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, again.ID)

	require.NoError(t, repo.RemoveTag(ctx, post.ID, existing.ID))
	detail, err = repo.GetDetail(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "a"}, tagNames(detail.Tags))

	assert.ErrorIs(t, repo.AddTags(ctx, "missing", []string{"z"}), gorm.ErrRecordNotFound)
}

func TestPostLists_NewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p1 := testutil.CreatePost(t, db, alice, base)
	p2 := testutil.CreatePost(t, db, bob, base.Add(time.Hour))
	p3 := testutil.CreatePost(t, db, alice, base.Add(2*time.Hour))

	all, total, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	assert.Equal(t, []string{p3.ID, p2.ID, p1.ID}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "alice", all[0].User.Username)

	mine, total, err := repo.ListByUser(ctx, alice.ID, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, mine, 1)
	assert.Equal(t, p3.ID, mine[0].ID)

	require.NoError(t, repo.AddTags(ctx, p1.ID, []string{"sun"}))
	require.NoError(t, repo.AddTags(ctx, p2.ID, []string{"sun"}))
	sun, err := NewTagRepository(db).GetByName(ctx, "sun")
	require.NoError(t, err)
	tagged, total, err := repo.ListByTag(ctx, sun.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, tagged, 2)
	assert.Equal(t, p2.ID, tagged[0].ID)
	assert.Equal(t, p1.ID, tagged[1].ID)
}

func TestPostDelete_Cascades(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	fan := testutil.CreateUser(t, db, "fan")
	post := &model.Post{ID: uuid.NewString(), UserID: owner.ID, Image: "x.jpg"}
	require.NoError(t, repo.Create(ctx, post, []string{"keep"}))
	other := testutil.CreatePost(t, db, owner, time.Time{})

	c := testutil.CreateComment(t, db, fan, post, "hi", time.Time{})
	keep := testutil.CreateComment(t, db, fan, other, "stay", time.Time{})
	_, err := likes.ToggleCommentLike(ctx, owner.ID, c.ID)
	require.NoError(t, err)
	_, err = likes.ToggleCommentLike(ctx, owner.ID, keep.ID)
	require.NoError(t, err)
	_, err = likes.TogglePostLike(ctx, fan.ID, post.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err = repo.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Equal(t, int64(1), countRows(t, db, "comments"))
	assert.Equal(t, int64(1), countRows(t, db, "like_comments"))
	assert.Zero(t, countRows(t, db, "like_posts"))
	assert.Zero(t, countRows(t, db, "post_tags"))
	// 标签本身保留
	assert.Equal(t, int64(1), countRows(t, db, "tags"))

	assert.ErrorIs(t, repo.Delete(ctx, post.ID), gorm.ErrRecordNotFound)
}

func TestPostUpdateDescription(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	post := testutil.CreatePost(t, db, owner, time.Time{})

	require.NoError(t, repo.UpdateDescription(ctx, post.ID, "new words"))
	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "new words", got.Description)

	assert.ErrorIs(t, repo.UpdateDescription(ctx, "missing", "x"), gorm.ErrRecordNotFound)
}
