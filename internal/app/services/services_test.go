package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/hirelytics/internal/app/auth"
	"github.com/yigit/hirelytics/internal/app/models/dto"
	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
	"github.com/yigit/hirelytics/internal/pkg/auth"
	"github.com/yigit/hirelytics/internal/pkg/dataset"
	"github.com/yigit/hirelytics/internal/pkg/datastore"
	"github.com/yigit/hirelytics/internal/pkg/events"
	"github.com/yigit/hirelytics/internal/pkg/insights"
)

const placementsCSV = `CGPA,Package,Company,Branch,Internship,Year,Skills
8.5,12,Acme,CSE,Yes,2023,"Python, SQL"
6.1,0,,ECE,No,2023,Excel
9.0,15,Globex,CSE,Yes,2024,"Python, Java"
5.5,0,,MECH,No,2024,AutoCAD
7.8,8,Acme,ECE,No,2024,"SQL, Excel"
`

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// brokenStore fails every call the way an unreachable backend does.
type brokenStore struct{}

func (brokenStore) Read(context.Context, string) (*datastore.Object, error) {
	return nil, datastore.ErrUnavailable
}

func (brokenStore) Write(context.Context, string, []byte, datastore.WriteOptions) (string, error) {
	return "", datastore.ErrUnavailable
}

func (brokenStore) Delete(context.Context, string, string) error {
	return datastore.ErrUnavailable
}

// stickyStore refuses to delete the listed paths.
type stickyStore struct {
	*datastore.LocalStore
	sticky []string
}

func (s stickyStore) Delete(ctx context.Context, path, message string) error {
	for _, p := range s.sticky {
		if p == path {
			return datastore.ErrUnavailable
		}
	}
	return s.LocalStore.Delete(ctx, path, message)
}

type fixture struct {
	store     *datastore.LocalStore
	publisher *recordingPublisher
	datasets  *DatasetService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := datastore.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	publisher := &recordingPublisher{}
	return &fixture{
		store:     store,
		publisher: publisher,
		datasets:  NewDatasetService(store, publisher, zerolog.Nop()),
	}
}

func (f *fixture) upload(t *testing.T, code, name string, data []byte) *domain.DatasetMeta {
	t.Helper()
	meta, err := f.datasets.Upload(context.Background(), "admin", code, domain.UploadedFile{FileName: name, Data: data}, "")
	require.NoError(t, err)
	return meta
}

func TestDatasetUploadAndLoad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	meta := f.upload(t, "KLU01", "placements.csv", []byte(placementsCSV))
	assert.Equal(t, domain.FormatCSV, meta.Format)
	assert.Equal(t, "placement_data_KLU01.csv", meta.Path)
	assert.Equal(t, 5, meta.Rows)
	assert.NotEmpty(t, meta.Revision)

	ds, loaded, err := f.datasets.Load(ctx, "KLU01")
	require.NoError(t, err)
	assert.Equal(t, 5, ds.Len())
	assert.Equal(t, meta.Revision, loaded.Revision)
	assert.Equal(t, []string{"Python", "SQL"}, ds.Records[0].Skills)

	exists, err := f.datasets.Exists(ctx, "KLU01")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Equal(t, []events.Type{events.DatasetUploaded}, f.publisher.types())
}

func TestDatasetUploadReplacesOtherFormat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.upload(t, "KLU01", "placements.csv", []byte(placementsCSV))
	ds, _, err := f.datasets.Load(ctx, "KLU01")
	require.NoError(t, err)

	xlsx, err := dataset.EncodeXLSX(ds)
	require.NoError(t, err)
	meta := f.upload(t, "KLU01", "placements.XLSX", xlsx)
	assert.Equal(t, domain.FormatXLSX, meta.Format)

	_, err = f.store.Read(ctx, "placement_data_KLU01.csv")
	assert.ErrorIs(t, err, datastore.ErrNotFound)

	reloaded, loaded, err := f.datasets.Load(ctx, "KLU01")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatXLSX, loaded.Format)
	assert.Equal(t, ds.Records, reloaded.Records)
}

func TestDatasetCSVWinsWhenBothExist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Write(ctx, "placement_data_KLU01.csv", []byte(placementsCSV), datastore.WriteOptions{})
	require.NoError(t, err)
	ds, err := dataset.Parse("KLU01", domain.FormatCSV, []byte(placementsCSV))
	require.NoError(t, err)
	ds.Records = ds.Records[:2]
	xlsx, err := dataset.EncodeXLSX(ds)
	require.NoError(t, err)
	_, err = f.store.Write(ctx, "placement_data_KLU01.xlsx", xlsx, datastore.WriteOptions{})
	require.NoError(t, err)

	loaded, meta, err := f.datasets.Load(ctx, "KLU01")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatCSV, meta.Format)
	assert.Equal(t, 5, loaded.Len())
}

func TestDatasetUploadFailsWhenOldFormatSurvives(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		sticky     []string
		xlsxExists bool
	}{
		{name: "rolled back", sticky: []string{"placement_data_KLU01.csv"}},
		{
			name:       "rollback fails too",
			sticky:     []string{"placement_data_KLU01.csv", "placement_data_KLU01.xlsx"},
			xlsxExists: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.upload(t, "KLU01", "placements.csv", []byte(placementsCSV))

			store := stickyStore{LocalStore: f.store, sticky: tt.sticky}
			datasets := NewDatasetService(store, f.publisher, zerolog.Nop())

			ds, err := dataset.Parse("KLU01", domain.FormatCSV, []byte(placementsCSV))
			require.NoError(t, err)
			ds.Records = ds.Records[:1]
			xlsx, err := dataset.EncodeXLSX(ds)
			require.NoError(t, err)

			_, err = datasets.Upload(ctx, "admin", "KLU01", domain.UploadedFile{FileName: "placements.xlsx", Data: xlsx}, "")
			require.ErrorIs(t, err, apperrors.ErrStoreUnavailable)

			_, err = f.store.Read(ctx, "placement_data_KLU01.xlsx")
			if tt.xlsxExists {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, datastore.ErrNotFound)
			}

			loaded, meta, err := f.datasets.Load(ctx, "KLU01")
			require.NoError(t, err)
			assert.Equal(t, "placement_data_KLU01.csv", meta.Path)
			assert.Equal(t, 5, loaded.Len())
			assert.Equal(t, []events.Type{events.DatasetUploaded}, f.publisher.types())
		})
	}
}

func TestDatasetUploadRejectsWholesale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.datasets.Upload(ctx, "admin", "KLU01", domain.UploadedFile{
		FileName: "bad.csv",
		Data:     []byte("CGPA,Package,Company\n8.0,5,Acme\n"),
	}, "")
	var missing *dataset.MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Branch", "Internship", "Year", "Skills"}, missing.Missing)

	_, err = f.datasets.Upload(ctx, "admin", "KLU01", domain.UploadedFile{
		FileName: "bad.csv",
		Data:     []byte("CGPA,Package,Company,Branch,Internship,Year,Skills\nhigh,5,Acme,CSE,Yes,2023,Go\n"),
	}, "")
	assert.ErrorIs(t, err, apperrors.ErrDatasetInvalid)

	_, err = f.datasets.Upload(ctx, "admin", "KLU01", domain.UploadedFile{FileName: "notes.txt", Data: []byte("x")}, "")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)

	exists, err := f.datasets.Exists(ctx, "KLU01")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, f.publisher.types())
}

func TestDatasetUploadExpectedRevision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.upload(t, "KLU01", "placements.csv", []byte(placementsCSV))

	_, err := f.datasets.Upload(ctx, "admin", "KLU01",
		domain.UploadedFile{FileName: "placements.csv", Data: []byte(placementsCSV)}, "stale")
	assert.ErrorIs(t, err, apperrors.ErrRevisionConflict)

	updated := placementsCSV + "7.0,6,Initech,CSE,Yes,2024,Go\n"
	meta, err := f.datasets.Upload(ctx, "admin", "KLU01",
		domain.UploadedFile{FileName: "placements.csv", Data: []byte(updated)}, first.Revision)
	require.NoError(t, err)
	assert.Equal(t, 6, meta.Rows)
	assert.NotEqual(t, first.Revision, meta.Revision)
}

func TestDatasetDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.upload(t, "KLU01", "placements.csv", []byte(placementsCSV))
	require.NoError(t, f.datasets.Delete(ctx, "admin", "KLU01"))

	_, _, err := f.datasets.Load(ctx, "KLU01")
	assert.ErrorIs(t, err, apperrors.ErrDatasetNotFound)
	assert.ErrorIs(t, f.datasets.Delete(ctx, "admin", "KLU01"), apperrors.ErrDatasetNotFound)

	assert.Equal(t, []events.Type{events.DatasetUploaded, events.DatasetDeleted}, f.publisher.types())
}

func TestDatasetPreview(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "KLU01", "placements.csv", []byte(placementsCSV))

	preview, err := f.datasets.Preview(context.Background(), "KLU01", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.RequiredColumns, preview.Columns)
	require.Len(t, preview.Rows, 2)
	assert.Equal(t, "Globex", preview.Rows[0].Company)
	assert.Equal(t, 3, preview.Pagination.TotalPages)
	assert.Equal(t, int64(5), preview.Pagination.TotalItems)
}

func TestStoreOutageSurfaces(t *testing.T) {
	datasets := NewDatasetService(brokenStore{}, nil, zerolog.Nop())
	ctx := context.Background()

	_, _, err := datasets.Load(ctx, "KLU01")
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)

	_, err = NewPredictionService(datasets, zerolog.Nop()).Predict(ctx, "KLU01", predictRequest(8, "Python", true))
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)

	_, err = datasets.Upload(ctx, "admin", "KLU01",
		domain.UploadedFile{FileName: "placements.csv", Data: []byte(placementsCSV)}, "")
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

func predictRequest(cgpa float64, skills string, internship bool) dto.PredictRequest {
	return dto.PredictRequest{CGPA: &cgpa, Skills: skills, Internship: internship}
}

func TestPredictionStatuses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewPredictionService(f.datasets, zerolog.Nop())

	resp, err := svc.Predict(ctx, "KLU01", predictRequest(8, "Python", true))
	require.NoError(t, err)
	assert.Equal(t, dto.StatusDatasetMissing, resp.Status)
	assert.Nil(t, resp.Prediction)

	f.upload(t, "KLU01", "placements.csv", []byte(placementsCSV))
	resp, err = svc.Predict(ctx, "KLU01", predictRequest(9.2, "python, sql", true))
	require.NoError(t, err)
	require.Equal(t, dto.StatusOK, resp.Status)
	require.NotNil(t, resp.Prediction)
	assert.InDelta(t, 2.0, resp.Prediction.Candidate.SkillMatch, 1e-9)
	assert.GreaterOrEqual(t, resp.Prediction.Confidence, 0.0)
	assert.LessOrEqual(t, resp.Prediction.Confidence, 100.0)

	again, err := svc.Predict(ctx, "KLU01", predictRequest(9.2, "python, sql", true))
	require.NoError(t, err)
	assert.Equal(t, resp.Prediction.Confidence, again.Prediction.Confidence)

	f.upload(t, "ALL1", "placements.csv", []byte("CGPA,Package,Company,Branch,Internship,Year,Skills\n8,10,Acme,CSE,Yes,2023,Go\n7,9,Acme,CSE,No,2023,Go\n"))
	resp, err = svc.Predict(ctx, "ALL1", predictRequest(8, "Go", true))
	require.NoError(t, err)
	assert.Equal(t, dto.StatusInsufficientData, resp.Status)
}

func TestPredictionInvalidStoredDataset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Write(ctx, "placement_data_KLU01.csv", []byte("Name,Score\nA,1\n"), datastore.WriteOptions{})
	require.NoError(t, err)

	resp, err := NewPredictionService(f.datasets, zerolog.Nop()).Predict(ctx, "KLU01", predictRequest(8, "Go", false))
	require.NoError(t, err)
	assert.Equal(t, dto.StatusDatasetInvalid, resp.Status)
	assert.Contains(t, resp.Reason, "CGPA")
}

func TestResumeAnalyze(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewResumeService(f.datasets, zerolog.Nop())
	file := domain.UploadedFile{FileName: "cv.txt", Data: []byte("Built services in Pythn and SQL.")}

	resp, err := svc.Analyze(ctx, "KLU01", file)
	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Equal(t, dto.StatusDatasetMissing, resp.Status)

	f.upload(t, "KLU01", "placements.csv", []byte(placementsCSV))
	resp, err = svc.Analyze(ctx, "KLU01", file)
	require.NoError(t, err)
	require.True(t, resp.Available)
	assert.Equal(t, []string{"python", "sql"}, resp.Analysis.Matched)
	assert.Equal(t, []string{"java", "excel"}, resp.Analysis.Missing)
	assert.True(t, resp.Analysis.SuggestInternship)

	_, err = svc.Analyze(ctx, "KLU01", domain.UploadedFile{FileName: "cv.png", Data: []byte{0x89, 'P', 'N', 'G'}})
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
}

func TestResumeBuild(t *testing.T) {
	svc := NewResumeService(nil, zerolog.Nop())

	doc, err := svc.Build(dto.ResumeBuildRequest{Name: "Jane Doe", Skills: "Go, SQL"}, nil)
	require.NoError(t, err)
	assert.True(t, len(doc.PDF) > 0)

	_, err = svc.Build(dto.ResumeBuildRequest{Name: "Jane Doe"}, []byte("not an image"))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestInsightsAndDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewInsightsService(f.datasets, zerolog.Nop())

	_, err := svc.Compute(ctx, "KLU01", insights.Filter{})
	assert.ErrorIs(t, err, apperrors.ErrDatasetNotFound)

	f.upload(t, "KLU01", "placements.csv", []byte(placementsCSV))
	in, err := svc.Compute(ctx, "KLU01", insights.Filter{Branch: "CSE"})
	require.NoError(t, err)
	assert.Equal(t, 2, in.Summary.TotalStudents)

	page, err := svc.Dashboard(ctx, "KLU01", insights.Filter{})
	require.NoError(t, err)
	assert.Contains(t, string(page), "KLU01 placement insights")
}

func newAuthService(t *testing.T, f *fixture) (*AuthService, *appauth.SessionStore) {
	t.Helper()
	sessions := appauth.NewSessionStore(time.Hour)
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test", TokenExp: time.Hour, TokenIssuer: "hirelytics"})
	colleges := map[string]string{"KLU01": "admin:secret"}
	return NewAuthService(colleges, sessions, jwtService, f.datasets, zerolog.Nop()), sessions
}

func TestAdminLogin(t *testing.T) {
	f := newFixture(t)
	svc, sessions := newAuthService(t, f)
	ctx := context.Background()

	resp, err := svc.AdminLogin(ctx, dto.AdminLoginRequest{CollegeCode: "KLU01", Username: "admin", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.Equal(t, domain.RoleAdmin, resp.Session.Role)
	assert.Equal(t, 1, sessions.Len())

	_, err = svc.AdminLogin(ctx, dto.AdminLoginRequest{CollegeCode: "KLU01", Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.AdminLogin(ctx, dto.AdminLoginRequest{CollegeCode: "NOPE", Username: "admin", Password: "secret"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCollegeCode)
}

func TestStudentLogin(t *testing.T) {
	f := newFixture(t)
	svc, sessions := newAuthService(t, f)
	ctx := context.Background()

	_, err := svc.StudentLogin(ctx, dto.StudentLoginRequest{CollegeCode: "KLU01"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCollegeCode)

	_, err = svc.StudentLogin(ctx, dto.StudentLoginRequest{CollegeCode: "../etc"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCollegeCode)

	f.upload(t, "KLU01", "placements.csv", []byte(placementsCSV))
	resp, err := svc.StudentLogin(ctx, dto.StudentLoginRequest{CollegeCode: " KLU01 "})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, resp.Session.Role)
	assert.Equal(t, "KLU01", resp.Session.CollegeCode)

	session, err := sessions.Get(sessionID(t, resp.Token.AccessToken))
	require.NoError(t, err)
	svc.Logout(session)
	assert.Equal(t, 0, sessions.Len())
}

func sessionID(t *testing.T, token string) string {
	t.Helper()
	claims, err := auth.NewJWTService(auth.JWTConfig{SecretKey: "test", TokenIssuer: "hirelytics"}).ValidateToken(token)
	require.NoError(t, err)
	return claims.SessionID
}

func TestStudentLoginStoreOutage(t *testing.T) {
	datasets := NewDatasetService(brokenStore{}, nil, zerolog.Nop())
	sessions := appauth.NewSessionStore(time.Hour)
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test", TokenIssuer: "hirelytics"})
	svc := NewAuthService(nil, sessions, jwtService, datasets, zerolog.Nop())

	_, err := svc.StudentLogin(context.Background(), dto.StudentLoginRequest{CollegeCode: "KLU01"})
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
}
