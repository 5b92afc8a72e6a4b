// Package pagedscope provides page-number pagination over ordered, filtered
// queries that can locate the page of any row without scanning up to it.
//
// Overview
//
// A Scope is an immutable view of an Engine (GORMEngine, or
// sqlengine.Engine for database/sql) with a total ordering and an optional
// limit/offset window. The ordering always ends with the engine's unique key,
// so no two rows tie.
//
// Key concepts
//   - RankOf: zero-based position of a row, computed with a single count of
//     the rows sorting before it (see RankPredicate).
//   - PageSet/Page: fixed-size pages of a scope, looked up by number or by the
//     row they contain.
//   - Paginator: next/previous links and numbered windows around a page, with
//     destinations resolved by a caller supplied PathFunc.
//   - Record: a fetched row that knows its previous and next rows.
//   - Collection: per-collection {PerPage, PageName} configuration and
//     ResolvePage for request handlers.
package pagedscope
