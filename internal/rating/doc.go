// Package rating turns film ratings into display strings and aggregates lists
// of rated items into averages and histograms.
//
// A rating reaches the formatter as an Input: Whole for integer ratings,
// Fractional for ratings that carry a half star, and Literal for values that
// were already formatted upstream. FormatValue maps an untyped template value
// onto one of these variants.
//
// Aggregation only considers items that name a director; items without one are
// placeholders (for example a film on a watch list) and are skipped.
package rating
