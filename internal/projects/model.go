// Package projects exposes the object store as projects holding files. A
// project is the first segment of an object key; daily reports live in a
// separate "daily-reports/{project}/" namespace.
package projects

import "time"

// DailyReportsNamespace is the key prefix under which daily reports are stored.
const DailyReportsNamespace = "daily-reports"

// FileMeta describes one stored file.
type FileMeta struct {
	Name         string    `json:"name"`
	LastModified time.Time `json:"last_modified"`
	Size         int64     `json:"size"`
}

// Upload is the result of storing a file.
type Upload struct {
	Project string `json:"project"`
	File    string `json:"file"`
	Path    string `json:"path"`
	Size    int64  `json:"size"`
}

// ProjectKey returns the object key of a project file.
func ProjectKey(project, file string) string {
	return project + "/" + file
}

// DailyReportKey returns the object key of a daily report.
func DailyReportKey(project, file string) string {
	return DailyReportsNamespace + "/" + project + "/" + file
}
