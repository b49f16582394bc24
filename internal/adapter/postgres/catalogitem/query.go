package catalogitem

import (
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// SQL forms of the three comparison strings. search_norm is a stored
// generated column; the brand-agnostic form needs the joined brand name and
// is computed per row.
const (
	rawExpr      = "lower(ci.search_name)"
	normExpr     = "ci.search_norm"
	agnosticExpr = `regexp_replace(replace(lower(ci.search_name), lower(coalesce(b.name, '')), ''), '[[:space:]_.-]+', '', 'g')`

	fromTable = "catalog_items ci"
	brandJoin = "brands b ON b.id = ci.brand_id"
)

var itemColumns = []string{
	"ci.id", "ci.name", "ci.slug", "ci.search_name", "b.name",
	"ci.mount_value", "ci.gear_type", "ci.price_cents", "ci.thumbnail_url",
	"ci.release_date", "ci.created_at", "ci.updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains builds a LIKE pattern matching s anywhere.
func contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func float8(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "::float8"
}

// buildFind renders the page query of a search.
func buildFind(s domain.CatalogSearch) (string, []any, error) {
	q := psql.Select(itemColumns...).From(fromTable).LeftJoin(brandJoin)

	if s.RankByRelevance() {
		expr, args := relevance(s)
		q = q.Column(sq.Alias(sq.Expr(expr, args...), "relevance"))
	}

	if w := where(s); len(w) > 0 {
		q = q.Where(w)
	}
	q = q.OrderBy(orderBy(s)...)

	if s.Limit > 0 {
		q = q.Limit(uint64(s.Limit))
	}
	if s.Offset > 0 {
		q = q.Offset(uint64(s.Offset))
	}
	return q.ToSql()
}

// buildCount renders the count query of a search; it shares the WHERE clause
// of buildFind.
func buildCount(s domain.CatalogSearch) (string, []any, error) {
	q := psql.Select("count(*)").From(fromTable).LeftJoin(brandJoin)
	if w := where(s); len(w) > 0 {
		q = q.Where(w)
	}
	return q.ToSql()
}

func where(s domain.CatalogSearch) sq.And {
	and := filters(s.Filter)
	if p := predicate(s); p != nil {
		and = append(and, p)
	}
	return and
}

// predicate is the matching predicate: any one branch admits the row.
func predicate(s domain.CatalogSearch) sq.Sqlizer {
	if !s.HasQuery() {
		return nil
	}

	or := sq.Or{}
	switch n := len(s.StrongTokens); {
	case n >= 2:
		parts := make([]string, n)
		args := make([]any, n)
		for i, tok := range s.StrongTokens {
			parts[i] = "CASE WHEN " + rawExpr + " LIKE ? THEN 1 ELSE 0 END"
			args[i] = contains(tok)
		}
		or = append(or, sq.Expr("("+strings.Join(parts, " + ")+") >= 2", args...))
	case n == 1:
		or = append(or, sq.Expr(rawExpr+" LIKE ?", contains(s.StrongTokens[0])))
	}

	norm := contains(s.Normalized)
	or = append(or,
		sq.Expr(normExpr+" LIKE ?", norm),
		sq.Expr(agnosticExpr+" LIKE ?", norm),
		sq.Expr("similarity("+agnosticExpr+", ?) > ?::float8", s.Normalized, s.Thresholds.BrandAgnostic),
		sq.Expr("similarity("+normExpr+", ?) > ?::float8", s.Normalized, s.Thresholds.Normalized),
	)
	return or
}

func filters(f domain.CatalogFilter) sq.And {
	and := sq.And{}
	if f.Brand != nil {
		and = append(and, sq.Expr("b.name ILIKE ?", contains(*f.Brand)))
	}
	if f.Mount != nil {
		and = append(and, sq.Expr("ci.mount_value ILIKE ?", contains(*f.Mount)))
	}
	if f.GearType != nil {
		and = append(and, sq.Eq{"ci.gear_type": string(*f.GearType)})
	}
	if f.PriceMinCents != nil {
		and = append(and, sq.GtOrEq{"ci.price_cents": *f.PriceMinCents})
	}
	if f.PriceMaxCents != nil {
		and = append(and, sq.LtOrEq{"ci.price_cents": *f.PriceMaxCents})
	}
	return and
}

// relevance renders the signal table as GREATEST over one term per signal.
func relevance(s domain.CatalogSearch) (string, []any) {
	terms := make([]string, 0, len(s.Signals))
	args := make([]any, 0, len(s.Signals))

	for _, sig := range s.Signals {
		w := float8(sig.Weight)
		switch sig.Kind {
		case domain.SignalRawSubstring:
			terms = append(terms, "CASE WHEN "+rawExpr+" LIKE ? THEN "+w+" ELSE 0 END")
			args = append(args, contains(s.Query))
		case domain.SignalNormalizedSubstring:
			terms = append(terms, "CASE WHEN "+normExpr+" LIKE ? THEN "+w+" ELSE 0 END")
			args = append(args, contains(s.Normalized))
		case domain.SignalBrandAgnosticSubstring:
			terms = append(terms, "CASE WHEN "+agnosticExpr+" LIKE ? THEN "+w+" ELSE 0 END")
			args = append(args, contains(s.Normalized))
		case domain.SignalBrandAgnosticSimilarity:
			terms = append(terms, "similarity("+agnosticExpr+", ?)::float8 * "+w)
			args = append(args, s.Normalized)
		case domain.SignalNormalizedSimilarity:
			terms = append(terms, "similarity("+normExpr+", ?)::float8 * "+w)
			args = append(args, s.Normalized)
		case domain.SignalRawSimilarity:
			terms = append(terms, "similarity("+rawExpr+", ?)::float8 * "+w)
			args = append(args, s.Query)
		}
	}
	return "GREATEST(" + strings.Join(terms, ", ") + ")", args
}

func orderBy(s domain.CatalogSearch) []string {
	switch {
	case s.RankByRelevance():
		return []string{"relevance DESC", "ci.name ASC", "ci.id ASC"}
	case s.Sort == domain.SortNewest:
		return []string{"ci.release_date DESC NULLS LAST", "ci.name ASC", "ci.id ASC"}
	default:
		return []string{"ci.name ASC", "ci.id ASC"}
	}
}
