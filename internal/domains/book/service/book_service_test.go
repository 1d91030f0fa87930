package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorModel "library-backend/internal/domains/author/model"
	authorRepo "library-backend/internal/domains/author/repository"
	authorService "library-backend/internal/domains/author/service"
	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/cache"
)

type fixture struct {
	books   ServiceInterface
	authors authorService.ServiceInterface
	store   *database.Store
}

func newTestService(t *testing.T) *fixture {
	t.Helper()
	store := database.NewTestStore(t)
	c := cache.NewNoopCache()
	authors := authorRepo.NewRepository(store.DB, c)

	return &fixture{
		books:   NewBookService(repository.NewRepository(store.DB, c), authors),
		authors: authorService.NewAuthorService(authors),
		store:   store,
	}
}

func (f *fixture) author(t *testing.T, name string) *authorModel.Author {
	t.Helper()
	a, err := f.authors.Create(context.Background(), authorModel.CreateAuthorRequest{Name: name})
	require.NoError(t, err)
	return a
}

func (f *fixture) insertEdition(t *testing.T, bookID uuid.UUID, isbn string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := utils.Now()
	_, err := f.store.DB.Exec(`
		INSERT INTO editions (id, isbn, year, language, book_id, format, page_count, created_at, updated_at)
		VALUES (?, ?, 2001, 'en', ?, 'paperback', 100, ?, ?)`,
		id, isbn, bookID, now, now)
	require.NoError(t, err)
	return id
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func Test_Create_SnapshotsAuthorsInOrder(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()

	gaiman := f.author(t, "Neil Gaiman")
	pratchett := f.author(t, "Terry Pratchett")

	b, err := f.books.Create(ctx, model.CreateBookRequest{
		Title:           "  Good   Omens ",
		AuthorIDs:       []uuid.UUID{pratchett.ID, gaiman.ID},
		PublicationYear: intPtr(1990),
		Genre:           strPtr("Fantasy"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Good Omens", b.Title)

	got, err := f.books.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Terry Pratchett", "Neil Gaiman"}, got.AuthorNames())
	assert.Equal(t, pratchett.ID, got.Authors[0].AuthorID)
	require.NotNil(t, got.PublicationYear)
	assert.Equal(t, 1990, *got.PublicationYear)
}

func Test_Create_UnknownAuthor(t *testing.T) {
	f := newTestService(t)

	_, err := f.books.Create(context.Background(), model.CreateBookRequest{
		Title:     "Orphan",
		AuthorIDs: []uuid.UUID{uuid.New()},
	})
	assert.True(t, authorModel.IsNotFoundError(err))
	assert.True(t, apperror.IsNotFound(err))
}

func Test_Create_ValidatesInput(t *testing.T) {
	f := newTestService(t)
	a := f.author(t, "Anon")

	tests := []struct {
		name string
		req  model.CreateBookRequest
	}{
		{"blank title", model.CreateBookRequest{Title: "  ", AuthorIDs: []uuid.UUID{a.ID}}},
		{"no authors", model.CreateBookRequest{Title: "T"}},
		{"duplicate author", model.CreateBookRequest{Title: "T", AuthorIDs: []uuid.UUID{a.ID, a.ID}}},
		{"year too early", model.CreateBookRequest{Title: "T", AuthorIDs: []uuid.UUID{a.ID}, PublicationYear: intPtr(1449)}},
		{"year too late", model.CreateBookRequest{Title: "T", AuthorIDs: []uuid.UUID{a.ID}, PublicationYear: intPtr(utils.MaxPublicationYear() + 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.books.Create(context.Background(), tt.req)
			assert.True(t, apperror.IsInvalidInput(err), "got %v", err)
		})
	}
}

func Test_Update_ReplacesAuthorSnapshot(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()

	first := f.author(t, "First")
	second := f.author(t, "Second")

	b, err := f.books.Create(ctx, model.CreateBookRequest{Title: "Draft", AuthorIDs: []uuid.UUID{first.ID}})
	require.NoError(t, err)

	updated, err := f.books.Update(ctx, b.ID, model.UpdateBookRequest{Genre: strPtr("Essay")})
	require.NoError(t, err)
	assert.Equal(t, []string{"First"}, updated.AuthorNames())
	assert.Equal(t, "Essay", *updated.Genre)

	updated, err = f.books.Update(ctx, b.ID, model.UpdateBookRequest{AuthorIDs: []uuid.UUID{second.ID, first.ID}})
	require.NoError(t, err)

	got, err := f.books.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Second", "First"}, got.AuthorNames())
	assert.Equal(t, updated.AuthorNames(), got.AuthorNames())
}

func Test_Update_AuthorRenameDoesNotRewriteSnapshot(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()

	a := f.author(t, "Old Name")
	b, err := f.books.Create(ctx, model.CreateBookRequest{Title: "Drift", AuthorIDs: []uuid.UUID{a.ID}})
	require.NoError(t, err)

	_, err = f.authors.Update(ctx, a.ID, authorModel.UpdateAuthorRequest{Name: strPtr("New Name")})
	require.NoError(t, err)

	got, err := f.books.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Old Name"}, got.AuthorNames())
}

func Test_List_FiltersByTitleAndAuthor(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()

	borges := f.author(t, "Jorge Luis Borges")
	casares := f.author(t, "Adolfo Bioy Casares")

	_, err := f.books.Create(ctx, model.CreateBookRequest{Title: "Ficciones", AuthorIDs: []uuid.UUID{borges.ID}})
	require.NoError(t, err)
	_, err = f.books.Create(ctx, model.CreateBookRequest{Title: "La invención de Morel", AuthorIDs: []uuid.UUID{casares.ID}})
	require.NoError(t, err)
	_, err = f.books.Create(ctx, model.CreateBookRequest{Title: "Seis problemas para don Isidro Parodi", AuthorIDs: []uuid.UUID{borges.ID, casares.ID}})
	require.NoError(t, err)

	books, total, err := f.books.List(ctx, model.BookFilter{AuthorID: casares.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, books, 2)

	books, total, err = f.books.List(ctx, model.BookFilter{Title: "FICC"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, books, 1)
	assert.Equal(t, []string{"Jorge Luis Borges"}, books[0].AuthorNames())
}

func Test_Delete_BlockedWhileEditionsExist(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()

	a := f.author(t, "Author")
	b, err := f.books.Create(ctx, model.CreateBookRequest{Title: "Guarded", AuthorIDs: []uuid.UUID{a.ID}})
	require.NoError(t, err)

	editionID := f.insertEdition(t, b.ID, "978-0-13-468599-1")

	err = f.books.Delete(ctx, b.ID)
	assert.ErrorIs(t, err, model.ErrBookHasEditions)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "1 edition(s)")

	_, err = f.store.DB.Exec(`DELETE FROM editions WHERE id = ?`, editionID)
	require.NoError(t, err)

	require.NoError(t, f.books.Delete(ctx, b.ID))
	_, err = f.books.GetByID(ctx, b.ID)
	assert.True(t, model.IsNotFoundError(err))

	var snapshots int
	require.NoError(t, f.store.DB.Get(&snapshots, `SELECT COUNT(*) FROM book_authors WHERE book_id = ?`, b.ID))
	assert.Zero(t, snapshots)
}
