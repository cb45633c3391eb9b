package service

import "github.com/NehanAhmed/Forge/internal/modules/model"

// CanView reports whether viewer may read the project. Public projects are
// readable by anyone; private ones only by their owner. Anonymous projects
// have no owner, so a private anonymous project is readable by nobody.
func CanView(p *model.Project, viewer *string) bool {
	if p.IsPublic {
		return true
	}
	if p.UserID == nil || viewer == nil {
		return false
	}
	return *p.UserID == *viewer
}
