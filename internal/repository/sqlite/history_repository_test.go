package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/mathadventures/internal/models"
	"github.com/vytor/mathadventures/internal/repository"
	"github.com/vytor/mathadventures/internal/repository/sqlite"
	"github.com/vytor/mathadventures/internal/testutil"
)

type HistoryRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.HistoryRepository
}

func (s *HistoryRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewHistoryRepository(s.db)
}

func (s *HistoryRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *HistoryRepositorySuite) TestLoad_MissingKeyIsEmpty() {
	sessions, err := s.repo.Load(context.Background(), repository.HistoryKey(1))
	s.Require().NoError(err)
	s.Assert().NotNil(sessions)
	s.Assert().Empty(sessions)
}

func (s *HistoryRepositorySuite) TestSaveAndLoad() {
	ctx := context.Background()
	key := repository.HistoryKey(7)

	rec := testutil.SessionRecord(120, models.LevelAdvanced, "3 x ? = 12")
	rec.Date = time.Date(2024, 6, 1, 17, 30, 0, 0, time.UTC)
	rec.ToughestQuestions = []string{"8 x 7 = ?"}

	s.Require().NoError(s.repo.Save(ctx, key, []models.SessionRecord{rec}))

	loaded, err := s.repo.Load(ctx, key)
	s.Require().NoError(err)
	s.Require().Len(loaded, 1)
	s.Assert().True(rec.Date.Equal(loaded[0].Date))
	s.Assert().Equal(120, loaded[0].Score)
	s.Assert().Equal(models.LevelAdvanced, loaded[0].Level)
	s.Assert().Equal([]string{"3 x ? = 12"}, loaded[0].Mistakes)
	s.Assert().Equal([]string{"8 x 7 = ?"}, loaded[0].ToughestQuestions)
}

func (s *HistoryRepositorySuite) TestSave_ReplacesWholeList() {
	ctx := context.Background()
	key := repository.HistoryKey(2)

	s.Require().NoError(s.repo.Save(ctx, key, []models.SessionRecord{
		testutil.SessionRecord(10, models.LevelBasic),
		testutil.SessionRecord(20, models.LevelBasic),
	}))
	s.Require().NoError(s.repo.Save(ctx, key, []models.SessionRecord{
		testutil.SessionRecord(30, models.LevelBasic),
	}))

	loaded, err := s.repo.Load(ctx, key)
	s.Require().NoError(err)
	s.Require().Len(loaded, 1)
	s.Assert().Equal(30, loaded[0].Score)
}

func (s *HistoryRepositorySuite) TestKeysAreIsolated() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Save(ctx, repository.HistoryKey(1), []models.SessionRecord{testutil.SessionRecord(10, models.LevelBasic)}))

	other, err := s.repo.Load(ctx, repository.HistoryKey(2))
	s.Require().NoError(err)
	s.Assert().Empty(other)
}

func (s *HistoryRepositorySuite) TestLoad_CorruptValue() {
	ctx := context.Background()
	key := repository.HistoryKey(3)
	_, err := s.db.ExecContext(ctx, `INSERT INTO kv_store (key, value) VALUES (?, ?)`, key, "{not json")
	s.Require().NoError(err)

	_, err = s.repo.Load(ctx, key)
	s.Assert().Error(err)
}

func (s *HistoryRepositorySuite) TestDelete() {
	ctx := context.Background()
	key := repository.HistoryKey(4)
	s.Require().NoError(s.repo.Save(ctx, key, []models.SessionRecord{testutil.SessionRecord(10, models.LevelBasic)}))

	s.Require().NoError(s.repo.Delete(ctx, key))
	loaded, err := s.repo.Load(ctx, key)
	s.Require().NoError(err)
	s.Assert().Empty(loaded)

	s.Assert().NoError(s.repo.Delete(ctx, key), "deleting a missing key is not an error")
}

func TestHistoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(HistoryRepositorySuite))
}
