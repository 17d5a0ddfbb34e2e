// Package usecase holds the scanning engine: the tiered product resolver,
// the compliance analyzer with its restriction index, and the usage/insights
// aggregation built on resolver outcomes.
package usecase
