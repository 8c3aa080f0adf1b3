// Package report persists run outcomes to an Excel workbook so repeated
// pipeline runs accumulate an auditable log.
package report
