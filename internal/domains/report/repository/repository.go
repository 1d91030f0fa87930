package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	memberModel "library-backend/internal/domains/member/model"
	"library-backend/internal/domains/report/model"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/shared/utils"
)

const likeEscape = ` ESCAPE '\'`

type repository struct {
	db       *sqlx.DB
	builder  goqu.DialectWrapper
	postgres bool
}

// NewRepository renders queries in the store's SQL dialect
func NewRepository(store *database.Store) RepositoryInterface {
	return &repository{
		db:       store.DB,
		builder:  goqu.Dialect(store.Dialect),
		postgres: store.IsPostgres(),
	}
}

func (r *repository) selectAll(ctx context.Context, dest interface{}, ds *goqu.SelectDataset) error {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build report query: %w", err)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}

func (r *repository) selectOne(ctx context.Context, dest interface{}, ds *goqu.SelectDataset) error {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build report query: %w", err)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

// ilike is a case-insensitive substring match on a column expression
func ilike(column, term string) exp.LiteralExpression {
	return goqu.L("LOWER("+column+") LIKE ?"+likeEscape, utils.LikePattern(term))
}

func (r *repository) CopiesCatalog(ctx context.Context) ([]model.CopyCatalogEntry, error) {
	ds := r.builder.From(goqu.T("copies").As("c")).
		Join(goqu.T("editions").As("e"), goqu.On(goqu.I("e.id").Eq(goqu.I("c.edition_id")))).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("e.book_id")))).
		Select(
			goqu.I("c.id").As("copy_id"),
			goqu.I("c.number"),
			goqu.I("c.available"),
			goqu.I("e.id").As("edition_id"),
			goqu.I("e.isbn"),
			goqu.I("e.format"),
			goqu.I("e.language"),
			goqu.I("b.id").As("book_id"),
			goqu.I("b.title"),
		).
		Order(goqu.I("b.title").Asc(), goqu.I("e.isbn").Asc(), goqu.I("c.number").Asc())

	entries := []model.CopyCatalogEntry{}
	if err := r.selectAll(ctx, &entries, ds); err != nil {
		return nil, fmt.Errorf("failed to load copies catalog: %w", err)
	}

	bookIDs := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		bookIDs = append(bookIDs, e.BookID)
	}
	names, err := r.authorNames(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Authors = names[entries[i].BookID]
	}

	return entries, nil
}

// authorNames returns the snapshot names of each book in position order
func (r *repository) authorNames(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	names := make(map[uuid.UUID][]string)
	if len(bookIDs) == 0 {
		return names, nil
	}

	ids := uniqueStrings(bookIDs)
	ds := r.builder.From("book_authors").
		Select("book_id", "author_name").
		Where(goqu.C("book_id").In(ids)).
		Order(goqu.C("book_id").Asc(), goqu.C("position").Asc())

	var rows []struct {
		BookID uuid.UUID `db:"book_id"`
		Name   string    `db:"author_name"`
	}
	if err := r.selectAll(ctx, &rows, ds); err != nil {
		return nil, fmt.Errorf("failed to load author names: %w", err)
	}

	for _, row := range rows {
		names[row.BookID] = append(names[row.BookID], row.Name)
	}
	return names, nil
}

func (r *repository) SearchBooks(ctx context.Context, title string) ([]model.BookMatch, error) {
	ds := r.builder.From(goqu.T("books").As("b")).
		Select(goqu.I("b.id"), goqu.I("b.title")).
		Where(ilike("b.title", title)).
		Order(goqu.I("b.title").Asc(), goqu.I("b.id").Asc())

	books := []model.BookMatch{}
	if err := r.selectAll(ctx, &books, ds); err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	if len(books) == 0 {
		return books, nil
	}

	bookIDs := make([]uuid.UUID, 0, len(books))
	for _, b := range books {
		bookIDs = append(bookIDs, b.BookID)
	}

	names, err := r.authorNames(ctx, bookIDs)
	if err != nil {
		return nil, err
	}

	editionsDS := r.builder.From("editions").
		Select("id", "book_id", "isbn", "year", "language", "format").
		Where(goqu.C("book_id").In(uniqueStrings(bookIDs))).
		Order(goqu.C("year").Asc(), goqu.C("isbn").Asc())

	var editions []model.EditionSummary
	if err := r.selectAll(ctx, &editions, editionsDS); err != nil {
		return nil, fmt.Errorf("failed to load editions of matched books: %w", err)
	}

	byBook := make(map[uuid.UUID][]model.EditionSummary)
	for _, e := range editions {
		byBook[e.BookID] = append(byBook[e.BookID], e)
	}

	for i := range books {
		books[i].Authors = names[books[i].BookID]
		books[i].Editions = byBook[books[i].BookID]
		if books[i].Editions == nil {
			books[i].Editions = []model.EditionSummary{}
		}
		books[i].EditionCount = len(books[i].Editions)
	}
	return books, nil
}

// availableCopiesOf counts available copies across the editions of book b
func (r *repository) availableCopiesOf(bookColumn string) *goqu.SelectDataset {
	return r.builder.From(goqu.T("copies").As("ac")).
		Join(goqu.T("editions").As("ae"), goqu.On(goqu.I("ae.id").Eq(goqu.I("ac.edition_id")))).
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.I("ae.book_id").Eq(goqu.I(bookColumn)),
			goqu.I("ac.available").Eq(true),
		)
}

func (r *repository) SearchAuthors(ctx context.Context, name string) ([]model.AuthorMatch, error) {
	editionCount := r.builder.From(goqu.T("editions").As("ce")).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.I("ce.book_id").Eq(goqu.I("b.id")))

	matchingAuthor := r.builder.From(goqu.T("book_authors").As("ba")).
		Select(goqu.L("1")).
		Where(
			goqu.I("ba.book_id").Eq(goqu.I("b.id")),
			ilike("ba.author_name", name),
		)

	ds := r.builder.From(goqu.T("books").As("b")).
		Select(
			goqu.I("b.id").As("book_id"),
			goqu.I("b.title"),
			editionCount.As("edition_count"),
			r.availableCopiesOf("b.id").As("available_copies"),
		).
		Where(goqu.L("EXISTS ?", matchingAuthor)).
		Order(goqu.I("b.title").Asc(), goqu.I("b.id").Asc())

	matches := []model.AuthorMatch{}
	if err := r.selectAll(ctx, &matches, ds); err != nil {
		return nil, fmt.Errorf("failed to search by author: %w", err)
	}

	bookIDs := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		bookIDs = append(bookIDs, m.BookID)
	}
	names, err := r.authorNames(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		matches[i].Authors = names[matches[i].BookID]
	}

	return matches, nil
}

func (r *repository) SearchISBN(ctx context.Context, fragment string) ([]model.ISBNMatch, error) {
	available := r.builder.From(goqu.T("copies").As("ac")).
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.I("ac.edition_id").Eq(goqu.I("e.id")),
			goqu.I("ac.available").Eq(true),
		)

	ds := r.builder.From(goqu.T("editions").As("e")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("e.book_id")))).
		Select(
			goqu.I("e.id").As("edition_id"),
			goqu.I("e.isbn"),
			goqu.I("e.year"),
			goqu.I("e.format"),
			goqu.I("b.id").As("book_id"),
			goqu.I("b.title"),
			available.As("available_copies"),
		).
		Where(ilike("e.isbn", fragment)).
		Order(goqu.I("e.isbn").Asc())

	matches := []model.ISBNMatch{}
	if err := r.selectAll(ctx, &matches, ds); err != nil {
		return nil, fmt.Errorf("failed to search editions by isbn: %w", err)
	}
	return matches, nil
}

func (r *repository) FindMember(ctx context.Context, nationalID string) (*memberModel.Member, bool, error) {
	base := r.builder.From("members").
		Select("id", "national_id", "name", "created_at", "updated_at")

	var m memberModel.Member
	err := r.selectOne(ctx, &m, base.Where(goqu.C("national_id").Eq(nationalID)))
	if err == nil {
		return &m, true, nil
	}
	if !database.IsNoRows(err) {
		return nil, false, fmt.Errorf("failed to find member by national id: %w", err)
	}

	err = r.selectOne(ctx, &m, base.
		Where(ilike("national_id", nationalID)).
		Order(goqu.C("national_id").Asc()).
		Limit(1))
	if err == nil {
		return &m, false, nil
	}
	if database.IsNoRows(err) {
		return nil, false, nil
	}
	return nil, false, fmt.Errorf("failed to search member by national id: %w", err)
}

func (r *repository) MemberLoanLines(ctx context.Context, memberID uuid.UUID, active bool) ([]model.LoanLine, error) {
	returned := goqu.I("l.return_date").IsNotNull()
	if active {
		returned = goqu.I("l.return_date").IsNull()
	}

	ds := r.builder.From(goqu.T("loans").As("l")).
		LeftJoin(goqu.T("copies").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("l.copy_id")))).
		LeftJoin(goqu.T("editions").As("e"), goqu.On(goqu.I("e.id").Eq(goqu.I("c.edition_id")))).
		LeftJoin(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("e.book_id")))).
		Select(
			goqu.I("l.id").As("loan_id"),
			goqu.I("l.copy_id"),
			goqu.I("c.number").As("copy_number"),
			goqu.I("e.isbn"),
			goqu.I("b.title"),
			goqu.I("l.loan_date"),
			goqu.I("l.due_date"),
			goqu.I("l.return_date"),
		).
		Where(goqu.I("l.member_id").Eq(memberID.String()), returned).
		Order(goqu.I("l.loan_date").Desc(), goqu.I("l.id").Asc())

	lines := []model.LoanLine{}
	if err := r.selectAll(ctx, &lines, ds); err != nil {
		return nil, fmt.Errorf("failed to load member loans: %w", err)
	}
	return lines, nil
}

func (r *repository) Statistics(ctx context.Context, now time.Time) (*model.Statistics, error) {
	stats := &model.Statistics{GeneratedAt: now}

	loanCounts := r.builder.From(goqu.T("loans").As("l")).Select(
		goqu.COUNT(goqu.Star()).As("total"),
		goqu.L("COALESCE(SUM(CASE WHEN l.return_date IS NULL THEN 1 ELSE 0 END), 0)").As("active"),
		goqu.L("COALESCE(SUM(CASE WHEN l.return_date IS NOT NULL THEN 1 ELSE 0 END), 0)").As("returned"),
		goqu.L("COALESCE(SUM(CASE WHEN l.return_date IS NULL AND l.due_date < ? THEN 1 ELSE 0 END), 0)", now).As("overdue"),
	)
	var loans struct {
		Total    int `db:"total"`
		Active   int `db:"active"`
		Returned int `db:"returned"`
		Overdue  int `db:"overdue"`
	}
	if err := r.selectOne(ctx, &loans, loanCounts); err != nil {
		return nil, fmt.Errorf("failed to count loans: %w", err)
	}
	stats.TotalLoans, stats.ActiveLoans = loans.Total, loans.Active
	stats.ReturnedLoans, stats.OverdueLoans = loans.Returned, loans.Overdue

	copyCounts := r.builder.From(goqu.T("copies").As("c")).Select(
		goqu.COUNT(goqu.Star()).As("total"),
		goqu.L("COALESCE(SUM(CASE WHEN c.available THEN 1 ELSE 0 END), 0)").As("available"),
	)
	var copies struct {
		Total     int `db:"total"`
		Available int `db:"available"`
	}
	if err := r.selectOne(ctx, &copies, copyCounts); err != nil {
		return nil, fmt.Errorf("failed to count copies: %w", err)
	}
	stats.TotalCopies, stats.AvailableCopies = copies.Total, copies.Available

	month := r.monthOf("l.loan_date")
	perMonth := r.builder.From(goqu.T("loans").As("l")).
		Select(month.As("month"), goqu.COUNT(goqu.Star()).As("count")).
		GroupBy(month).
		Order(month.Asc())
	stats.LoansPerMonth = []model.MonthCount{}
	if err := r.selectAll(ctx, &stats.LoansPerMonth, perMonth); err != nil {
		return nil, fmt.Errorf("failed to group loans by month: %w", err)
	}

	loanCount := goqu.COUNT(goqu.I("l.id"))
	topBooks := r.builder.From(goqu.T("loans").As("l")).
		Join(goqu.T("copies").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("l.copy_id")))).
		Join(goqu.T("editions").As("e"), goqu.On(goqu.I("e.id").Eq(goqu.I("c.edition_id")))).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("e.book_id")))).
		Select(goqu.I("b.id").As("book_id"), goqu.I("b.title"), loanCount.As("count")).
		GroupBy(goqu.I("b.id"), goqu.I("b.title")).
		Order(loanCount.Desc(), goqu.I("b.title").Asc()).
		Limit(model.TopN)
	stats.TopBooks = []model.BookCount{}
	if err := r.selectAll(ctx, &stats.TopBooks, topBooks); err != nil {
		return nil, fmt.Errorf("failed to rank books: %w", err)
	}

	topMembers := r.builder.From(goqu.T("loans").As("l")).
		Join(goqu.T("members").As("m"), goqu.On(goqu.I("m.id").Eq(goqu.I("l.member_id")))).
		Select(goqu.I("m.id").As("member_id"), goqu.I("m.national_id"), goqu.I("m.name"), loanCount.As("count")).
		GroupBy(goqu.I("m.id"), goqu.I("m.national_id"), goqu.I("m.name")).
		Order(loanCount.Desc(), goqu.I("m.name").Asc()).
		Limit(model.TopN)
	stats.TopMembers = []model.MemberCount{}
	if err := r.selectAll(ctx, &stats.TopMembers, topMembers); err != nil {
		return nil, fmt.Errorf("failed to rank members: %w", err)
	}

	return stats, nil
}

// monthOf renders a YYYY-MM bucket for a timestamp column. SQLite stores
// timestamps as "YYYY-MM-DD hh:mm:ss" text in UTC
func (r *repository) monthOf(column string) exp.LiteralExpression {
	if r.postgres {
		return goqu.L("to_char(" + column + " AT TIME ZONE 'UTC', 'YYYY-MM')")
	}
	return goqu.L("substr(" + column + ", 1, 7)")
}

func uniqueStrings(ids []uuid.UUID) []string {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id.String())
	}
	return out
}
