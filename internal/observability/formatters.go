// Package observability renders API results for the terminal.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobby/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted terminal output
type Printer struct {
	out     io.Writer
	verbose bool
}

// NewPrinter creates a new Printer that writes to the given writer.
// A verbose printer lists every item instead of the first few.
func NewPrinter(out io.Writer, verbose bool) *Printer {
	return &Printer{out: out, verbose: verbose}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to the inner box width, counting runes.
func pad(s string) string {
	width := boxWidth - 4
	n := utf8.RuneCountInString(s)
	if n > width {
		r := []rune(s)
		return string(r[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

func (p *Printer) limit(n int) int {
	if p.verbose {
		return n
	}
	return min(n, maxItemsToShow)
}

// PrintProfile outputs the signed-in user's profile.
func (p *Printer) PrintProfile(profile types.Profile) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:  %s\n", profile.Name))
	sb.WriteString(fmt.Sprintf("Bio:   %s", profile.ShortBio))
	if p.verbose && profile.ProfileImageURL != "" {
		sb.WriteString(fmt.Sprintf("\nImage: %s", profile.ProfileImageURL))
	}
	p.printBox("PROFILE", sb.String())
}

// PrintJobs outputs a job list, noting how many were hidden.
func (p *Printer) PrintJobs(jobs []types.JobSummary) {
	if len(jobs) == 0 {
		p.printBox("JOBS", "No Jobs Found\nWe could not find any jobs. Try other filters.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total jobs: %d\n\n", len(jobs)))

	count := p.limit(len(jobs))
	for i := 0; i < count; i++ {
		writeSummary(&sb, i+1, jobs[i])
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(jobs) > count {
		sb.WriteString(fmt.Sprintf("\n... and %d more (use --verbose to list all)", len(jobs)-count))
	}

	p.printBox("JOBS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobDetail outputs one job with its skills and similar jobs.
func (p *Printer) PrintJobDetail(job types.JobDetail) {
	var sb strings.Builder
	writeSummary(&sb, 0, job.JobSummary)

	if job.CompanyWebsiteURL != "" {
		sb.WriteString(fmt.Sprintf("    Website: %s\n", job.CompanyWebsiteURL))
	}
	sb.WriteString(fmt.Sprintf("\n%s\n", job.JobDescription))

	if len(job.Skills) > 0 {
		names := make([]string, 0, len(job.Skills))
		for _, s := range job.Skills {
			names = append(names, s.Name)
		}
		sb.WriteString(fmt.Sprintf("\nSkills: %s\n", strings.Join(names, ", ")))
	}

	if job.LifeAtCompany.Description != "" {
		sb.WriteString(fmt.Sprintf("\nLife at Company:\n%s\n", job.LifeAtCompany.Description))
	}

	p.printBox("JOB DETAILS", strings.TrimSuffix(sb.String(), "\n"))

	if len(job.SimilarJobs) > 0 {
		var similar strings.Builder
		count := p.limit(len(job.SimilarJobs))
		for i := 0; i < count; i++ {
			writeSummary(&similar, i+1, job.SimilarJobs[i])
		}
		p.printBox("SIMILAR JOBS", strings.TrimSuffix(similar.String(), "\n"))
	}
}

// writeSummary writes the header lines of a job; n == 0 omits the index.
func writeSummary(sb *strings.Builder, n int, j types.JobSummary) {
	if n > 0 {
		sb.WriteString(fmt.Sprintf("#%d  %s\n", n, j.Title))
	} else {
		sb.WriteString(fmt.Sprintf("%s\n", j.Title))
	}
	sb.WriteString(fmt.Sprintf("    ★ %.1f  |  %s  |  %s", j.Rating, j.Location, j.EmploymentType))
	if j.PackagePerAnnum != "" {
		sb.WriteString(fmt.Sprintf("  |  %s", j.PackagePerAnnum))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("    id: %s\n", j.ID))
}
