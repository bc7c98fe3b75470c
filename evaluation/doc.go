// Package evaluation scores a linkage result against ground truth. Two
// records are a true match when they come from opposite sources and share
// the identifier attribute.
package evaluation
