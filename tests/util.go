package testutil

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/b7r7b1440/control/core/committee"
	"github.com/b7r7b1440/control/core/stage"
	"github.com/b7r7b1440/control/core/user"
)

// DefaultPassword satisfies the password policy; shared by all fixtures.
const DefaultPassword = "S3cured!pwd"

var (
	seqMu sync.Mutex
	seq   int
)

// RandomDigits returns n random decimal digits, useful for unique civil IDs.
func RandomDigits(n int) string {
	seqMu.Lock()
	seq++
	s := seq
	seqMu.Unlock()

	out := fmt.Sprintf("%d", s)
	for len(out) < n {
		out += fmt.Sprintf("%d", rand.Intn(10))
	}
	return out[:n]
}

func CreateUser(t *testing.T, svc *user.Service, name, civilID, role string) user.User {
	usr, err := svc.Create(user.NewUser{
		Name:            name,
		CivilID:         civilID,
		Role:            role,
		Password:        DefaultPassword,
		PasswordConfirm: DefaultPassword,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStage(t *testing.T, svc *stage.Service, name, prefix string, total int) stage.Stage {
	stg, err := svc.Create(stage.NewStage{Name: name, Prefix: prefix, Total: total})
	if err != nil {
		t.Fatalf("CreateStage() failed: %v", err)
	}
	return stg
}

// DistributeRooms runs auto-distribution and returns the persisted rooms.
func DistributeRooms(t *testing.T, svc *committee.Service, stages []stage.Stage, n int) []committee.Committee {
	if _, err := svc.AutoDistribute(stages, n); err != nil {
		t.Fatalf("DistributeRooms() failed: %v", err)
	}
	rooms, err := svc.QueryAll()
	if err != nil {
		t.Fatalf("DistributeRooms() failed: %v", err)
	}
	return rooms
}
