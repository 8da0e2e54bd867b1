package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	. "github.com/b7r7b1440/control/apps/api/echo"
	"github.com/b7r7b1440/control/core"
	"github.com/b7r7b1440/control/core/committee"
	"github.com/b7r7b1440/control/core/exam"
	"github.com/b7r7b1440/control/core/stage"
	"github.com/b7r7b1440/control/core/user"
	emailsvc "github.com/b7r7b1440/control/services/email"
	logsvc "github.com/b7r7b1440/control/services/logger"
	inmemdb "github.com/b7r7b1440/control/storage/database/inmem"
	"github.com/b7r7b1440/control/tests"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	core.Conf = &core.Config{
		TestMode:         true,
		AppName:          "ExamControl",
		SecretKey:        "secret",
		DefaultFromName:  "Exam Control",
		DefaultFromEmail: "noreply@localhost",
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}

	validate = validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	os.Exit(m.Run())
}

type deps struct {
	app          Server
	userSvc      *user.Service
	stageSvc     *stage.Service
	committeeSvc *committee.Service
	examSvc      *exam.Service
}

func setup(t *testing.T) deps {
	db, err := inmemdb.Open()
	require.NoError(t, err)

	mailSvc := emailsvc.NewConsoleServiceMock(core.Conf)
	d := deps{
		userSvc:      user.NewService(inmemdb.NewUserRepository(db)),
		stageSvc:     stage.NewService(inmemdb.NewStageRepository(db)),
		committeeSvc: committee.NewService(inmemdb.NewCommitteeRepository(db)),
		examSvc:      exam.NewService(inmemdb.NewEnvelopeRepository(db), mailSvc, exam.Options{}),
	}
	d.app = NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         logsvc.NewStdLogger(log.New(io.Discard, "", 0)),
			Validate:       validate,
			Translator:     translator,
			UserSvc:        d.userSvc,
			StageSvc:       d.stageSvc,
			CommitteeSvc:   d.committeeSvc,
			ExamSvc:        d.examSvc,
			SignalShutdown: func() {},
		},
	)
	return d
}

type httpErr struct {
	Error string `json:"error"`
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func tokenFor(t *testing.T, d deps, role string) string {
	civilID := "9" + testutil.RandomDigits(9)
	usr := testutil.CreateUser(t, d.userSvc, "User "+role, civilID, role)
	return getToken(t, usr)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decodeBody() failed: %v; body: %s", err, rec.Body.String())
	}
}
