package runner

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"strings"
	"syscall"
)

func currentUID() int { return os.Getuid() }

// resolveCredential resolves a run_as descriptor ("user" or "user:group")
// to a syscall.Credential, per §4.5 step 3. Supplementary groups are
// dropped: only the resolved primary uid/gid are set.
func resolveCredential(runAs string) (*syscall.Credential, error) {
	runAs = strings.TrimSpace(runAs)
	if runAs == "" {
		return nil, nil
	}

	userPart, groupPart, hasGroup := strings.Cut(runAs, ":")

	u, err := user.Lookup(userPart)
	if err != nil {
		return nil, &ResolveUserError{RunAs: runAs, Err: err}
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return nil, &ResolveUserError{RunAs: runAs, Err: fmt.Errorf("non-numeric uid %q", u.Uid)}
	}

	gid := 0
	if gidNum, err := strconv.Atoi(u.Gid); err == nil {
		gid = gidNum
	}
	if hasGroup {
		g, err := user.LookupGroup(groupPart)
		if err != nil {
			return nil, &ResolveUserError{RunAs: runAs, Err: err}
		}
		gid, err = strconv.Atoi(g.Gid)
		if err != nil {
			return nil, &ResolveUserError{RunAs: runAs, Err: fmt.Errorf("non-numeric gid %q", g.Gid)}
		}
	}

	if currentUID() != 0 && uid != currentUID() {
		return nil, &PermissionError{RunAs: runAs, Err: fmt.Errorf("scheduler is not running as root")}
	}

	return &syscall.Credential{Uid: uint32(uid), Gid: uint32(gid)}, nil
}
