package pin

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tourato/tourato-api/internal/app/models"
)

func newMockRepo(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepository(mock, zap.NewNop()), mock
}

var pinRowColumns = []string{
	"id", "category", "name", "city_id", "city_name",
	"latitude", "longitude",
	"slug", "description", "header_image", "icon", "marker_icon",
	"link", "rating", "published", "created_by", "tags",
	"created_at", "updated_at",
}

func pinRowValues(id, cityID uuid.UUID, rating *float64, now time.Time) []any {
	return []any{
		id, models.CategoryHotel, "Taj Palace", cityID, "New Delhi",
		28.6562, 77.2410,
		"hotel-taj-palace-a1b2c", "A landmark hotel.", "", "hotel", "hotel-marker",
		"https://example.com", rating, true, (*uuid.UUID)(nil), []string{"luxury"},
		now, now,
	}
}

func TestCreatePinValidation(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	cityID := uuid.New()

	_, err := repo.CreatePin(ctx, &models.Pin{
		Category: models.CategoryHotel, Name: "Taj Palace",
		CityID: cityID, Latitude: 97.0, Longitude: 77.24,
	})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	_, err = repo.CreatePin(ctx, &models.Pin{
		Category: models.CategoryHotel,
		CityID:   cityID, Latitude: 28.65, Longitude: 77.24,
	})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	_, err = repo.CreatePin(ctx, &models.Pin{
		Category: models.Category("lodging"), Name: "Taj Palace",
		CityID: cityID, Latitude: 28.65, Longitude: 77.24,
	})
	assert.ErrorIs(t, err, models.ErrUnknownCategory)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePinReturnsID(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`INSERT INTO pins`).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))

	got, err := repo.CreatePin(context.Background(), &models.Pin{
		Category: models.CategoryHotel, Name: "Taj Palace",
		CityID: uuid.New(), Latitude: 28.6562, Longitude: 77.2410,
		Slug: "hotel-taj-palace-a1b2c",
	})
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePinNilTagsInsertEmptyArray(t *testing.T) {
	repo, mock := newMockRepo(t)
	id, cityID := uuid.New(), uuid.New()

	p := &models.Pin{
		Category: models.CategoryHotel, Name: "Taj Palace",
		CityID: cityID, Latitude: 28.6562, Longitude: 77.2410,
		Slug: "hotel-taj-palace-a1b2c",
	}
	require.Nil(t, p.Tags)

	mock.ExpectQuery(`INSERT INTO pins`).
		WithArgs(models.CategoryHotel, "Taj Palace", cityID, 77.2410, 28.6562,
			"hotel-taj-palace-a1b2c", "", "", "", "", "",
			(*float64)(nil), false, (*uuid.UUID)(nil), []string{}).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))

	_, err := repo.CreatePin(context.Background(), p)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBySlugNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`WHERE p\.slug = \$1`).
		WithArgs("no-such-slug").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetBySlug(context.Background(), "no-such-slug")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBySlugScansRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	id, cityID := uuid.New(), uuid.New()
	rating := 4.5
	now := time.Now()

	mock.ExpectQuery(`WHERE p\.slug = \$1`).
		WithArgs("hotel-taj-palace-a1b2c").
		WillReturnRows(pgxmock.NewRows(pinRowColumns).AddRow(pinRowValues(id, cityID, &rating, now)...))

	p, err := repo.GetBySlug(context.Background(), "hotel-taj-palace-a1b2c")
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, models.CategoryHotel, p.Category)
	assert.Equal(t, "New Delhi", p.CityName)
	require.NotNil(t, p.Rating)
	assert.Equal(t, 4.5, *p.Rating)
	assert.Equal(t, []string{"luxury"}, p.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAppliesFilters(t *testing.T) {
	repo, mock := newMockRepo(t)
	id, cityID := uuid.New(), uuid.New()
	now := time.Now()
	cat := models.CategoryHotel

	mock.ExpectQuery(`p\.published = \$1 AND p\.category = \$2 AND p\.name ILIKE \$3`).
		WithArgs(true, cat, "%taj%").
		WillReturnRows(pgxmock.NewRows(pinRowColumns).AddRow(pinRowValues(id, cityID, nil, now)...))

	pins, err := repo.List(context.Background(), models.PinFilter{
		PublishedOnly: true,
		Category:      &cat,
		NameSubstring: "taj",
	})
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, "Taj Palace", pins[0].Name)
	assert.Nil(t, pins[0].Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindWithinRadiusAnnotatesDistance(t *testing.T) {
	repo, mock := newMockRepo(t)
	id, cityID := uuid.New(), uuid.New()
	now := time.Now()

	cols := append(append([]string{}, pinRowColumns...), "distance")
	vals := append(pinRowValues(id, cityID, nil, now), 7.3)
	mock.ExpectQuery(`ST_DWithin`).
		WithArgs(models.CategoryHotel, 77.2410, 28.6562, 50.0, 5).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(vals...))

	cands, err := repo.FindWithinRadius(context.Background(), models.CategoryHotel, 77.2410, 28.6562, 50.0, 5)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	require.NotNil(t, cands[0].Distance)
	assert.Equal(t, 7.3, *cands[0].Distance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDuplicateCategoriesNearDeclarationOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	cityID := uuid.New()

	mock.ExpectQuery(`SELECT DISTINCT category`).
		WithArgs(cityID, 77.2410, 28.6562, 10.0).
		WillReturnRows(pgxmock.NewRows([]string{"category"}).
			AddRow(models.CategoryHotel).
			AddRow(models.CategoryMainAttraction))

	cats, err := repo.DuplicateCategoriesNear(context.Background(), cityID, 77.2410, 28.6562, 10.0)
	require.NoError(t, err)
	assert.Equal(t, []models.Category{models.CategoryMainAttraction, models.CategoryHotel}, cats)
	assert.NoError(t, mock.ExpectationsWereMet())
}
