package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vnkhanh/visa-rent-server/config"
	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/notify"
	"github.com/vnkhanh/visa-rent-server/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

type fakeNotifier struct {
	mu         sync.Mutex
	apartments []notify.ApartmentMessage
	alerts     []notify.SubscriberAlertMessage
	err        error
}

func (f *fakeNotifier) NewContactRequest(context.Context, notify.ContactRequestMessage) error {
	return f.err
}

func (f *fakeNotifier) NewViewingRequest(context.Context, notify.ViewingRequestMessage) error {
	return f.err
}

func (f *fakeNotifier) NewApartment(_ context.Context, m notify.ApartmentMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apartments = append(f.apartments, m)
	return f.err
}

func (f *fakeNotifier) SubscriberAlert(_ context.Context, m notify.SubscriberAlertMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, m)
	return f.err
}

type fakeBlobs struct {
	deleted []string
	err     error
}

func (f *fakeBlobs) Upload(context.Context, string, io.Reader, string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeBlobs) DeleteByURL(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return f.err
}

func intp(v int) *int    { return &v }
func uintp(v uint) *uint { return &v }

func seedDistrict(t *testing.T, db *gorm.DB, name string) models.District {
	t.Helper()
	d := models.District{NameRu: name, IsActive: true}
	require.NoError(t, db.Create(&d).Error)
	return d
}

func TestCreateApartment_DerivesPriceVndAndDefaults(t *testing.T) {
	db := newTestDB(t)
	d := seedDistrict(t, db, "Центр")
	n := &fakeNotifier{}

	lat, lng := 12.2388, 109.1967
	a := models.Apartment{TitleRu: "Студия у моря", PriceUsd: 450, Rooms: 1, DistrictID: d.ID,
		Latitude: &lat, Longitude: &lng, IsAvailable: true, CanBeShown: true}
	require.NoError(t, CreateApartment(context.Background(), db, n, &a, nil))

	got, err := GetApartment(db, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(450*25000), got.PriceVnd)
	assert.Equal(t, "Студия у моря", got.TitleEn)
	assert.Equal(t, "Студия у моря", got.TitleVi)
	assert.Len(t, got.Geohash, 7)
	require.NotNil(t, got.District)
	assert.Equal(t, "Центр", got.District.NameRu)
}

func TestCreateApartment_KeepsExplicitPriceVnd(t *testing.T) {
	db := newTestDB(t)
	d := seedDistrict(t, db, "Север")

	a := models.Apartment{TitleRu: "x", PriceUsd: 100, PriceVnd: 2600000, DistrictID: d.ID}
	require.NoError(t, CreateApartment(context.Background(), db, notify.Noop{}, &a, nil))
	assert.Equal(t, int64(2600000), a.PriceVnd)
}

func TestCreateApartment_UnknownDistrictOrAmenity(t *testing.T) {
	db := newTestDB(t)
	err := CreateApartment(context.Background(), db, notify.Noop{}, &models.Apartment{TitleRu: "x", DistrictID: 99}, nil)
	assert.ErrorIs(t, err, ErrDistrictNotFound)

	d := seedDistrict(t, db, "Юг")
	err = CreateApartment(context.Background(), db, notify.Noop{}, &models.Apartment{TitleRu: "x", DistrictID: d.ID}, []uint{42})
	assert.ErrorIs(t, err, ErrAmenityNotFound)
}

func TestMatchingSubscriptions_NullBoundsDoNotExclude(t *testing.T) {
	db := newTestDB(t)
	d1 := seedDistrict(t, db, "A")
	d2 := seedDistrict(t, db, "B")

	subs := []models.ApartmentSubscription{
		{Email: "all@x.io", IsActive: true},
		{Email: "cheap@x.io", MaxPrice: intp(500), IsActive: true},
		{Email: "rich@x.io", MinPrice: intp(1000), IsActive: true},
		{Email: "rooms@x.io", MinRooms: intp(2), MaxRooms: intp(3), IsActive: true},
		{Email: "d1@x.io", DistrictID: uintp(d1.ID), IsActive: true},
		{Email: "d2@x.io", DistrictID: uintp(d2.ID), IsActive: true},
		{Email: "off@x.io", IsActive: false},
		{Email: "exact@x.io", MinPrice: intp(600), MaxPrice: intp(600), MinRooms: intp(2), MaxRooms: intp(2), IsActive: true},
	}
	require.NoError(t, db.Create(&subs).Error)

	a := &models.Apartment{PriceUsd: 600, Rooms: 2, DistrictID: d1.ID}
	matched, err := MatchingSubscriptions(db, a)
	require.NoError(t, err)

	var emails []string
	for _, s := range matched {
		emails = append(emails, s.Email)
		assert.True(t, s.Matches(a), s.Email)
	}
	assert.ElementsMatch(t, []string{"all@x.io", "rooms@x.io", "d1@x.io", "exact@x.io"}, emails)
}

func TestCreateApartment_NotifiesAdminAndSubscribers(t *testing.T) {
	db := newTestDB(t)
	d := seedDistrict(t, db, "Центр")
	require.NoError(t, db.Create(&[]models.ApartmentSubscription{
		{Email: "a@x.io", IsActive: true},
		{Email: "a@x.io", MaxPrice: intp(900), IsActive: true},
		{Email: "b@x.io", MaxPrice: intp(100), IsActive: true},
	}).Error)

	n := &fakeNotifier{}
	a := models.Apartment{TitleRu: "Flat", PriceUsd: 700, Rooms: 2, DistrictID: d.ID}
	require.NoError(t, CreateApartment(context.Background(), db, n, &a, nil))

	require.Len(t, n.apartments, 1)
	assert.Equal(t, 2, n.apartments[0].MatchedCount)
	assert.Equal(t, "Центр", n.apartments[0].District)
	require.Len(t, n.alerts, 1)
	assert.Equal(t, []string{"a@x.io"}, n.alerts[0].Emails)
}

func TestCreateApartment_NoMatchSendsOnlySummary(t *testing.T) {
	db := newTestDB(t)
	d := seedDistrict(t, db, "Центр")
	n := &fakeNotifier{}

	a := models.Apartment{TitleRu: "Flat", PriceUsd: 700, Rooms: 2, DistrictID: d.ID}
	require.NoError(t, CreateApartment(context.Background(), db, n, &a, nil))
	assert.Len(t, n.apartments, 1)
	assert.Empty(t, n.alerts)
}

func TestCreateApartment_NotificationFailureIsSwallowed(t *testing.T) {
	db := newTestDB(t)
	d := seedDistrict(t, db, "Центр")
	require.NoError(t, db.Create(&models.ApartmentSubscription{Email: "a@x.io", IsActive: true}).Error)

	n := &fakeNotifier{err: errors.New("telegram down")}
	a := models.Apartment{TitleRu: "Flat", PriceUsd: 700, Rooms: 2, DistrictID: d.ID}
	require.NoError(t, CreateApartment(context.Background(), db, n, &a, nil))
	assert.NotZero(t, a.ID)
	assert.Len(t, n.alerts, 1)
}

func TestUpdateApartment_ReplacesAmenities(t *testing.T) {
	db := newTestDB(t)
	d := seedDistrict(t, db, "Центр")
	am := []models.Amenity{{NameRu: "Wi-Fi"}, {NameRu: "Бассейн"}, {NameRu: "Парковка"}}
	require.NoError(t, db.Create(&am).Error)

	a := models.Apartment{TitleRu: "Flat", PriceUsd: 700, Rooms: 2, DistrictID: d.ID}
	require.NoError(t, CreateApartment(context.Background(), db, notify.Noop{}, &a, []uint{am[0].ID, am[1].ID}))

	require.NoError(t, db.Model(&models.Apartment{}).Where("id = ?", a.ID).Update("view_count", 5).Error)

	a.PriceUsd = 800
	a.PriceVnd = 0
	require.NoError(t, UpdateApartment(db, &a, []uint{am[2].ID}))

	got, err := GetApartment(db, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(800*25000), got.PriceVnd)
	require.Len(t, got.Amenities, 1)
	assert.Equal(t, "Парковка", got.Amenities[0].NameRu)
	assert.Equal(t, 5, got.ViewCount)
}

func TestIncrementViews(t *testing.T) {
	db := newTestDB(t)
	d := seedDistrict(t, db, "Центр")
	a := models.Apartment{TitleRu: "Flat", DistrictID: d.ID, CanBeShown: true}
	require.NoError(t, db.Create(&a).Error)
	hidden := models.Apartment{TitleRu: "Hidden", DistrictID: d.ID, CanBeShown: false}
	require.NoError(t, db.Create(&hidden).Error)

	require.NoError(t, IncrementViews(db, a.ID))
	require.NoError(t, IncrementViews(db, a.ID))
	assert.ErrorIs(t, IncrementViews(db, hidden.ID), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, IncrementViews(db, 999), gorm.ErrRecordNotFound)

	var got models.Apartment
	require.NoError(t, db.First(&got, a.ID).Error)
	assert.Equal(t, 2, got.ViewCount)
}

func createWithImages(t *testing.T, db *gorm.DB, urls ...string) (models.Apartment, []models.ApartmentImage) {
	t.Helper()
	d := seedDistrict(t, db, "Центр")
	a := models.Apartment{TitleRu: "Flat", DistrictID: d.ID}
	require.NoError(t, db.Create(&a).Error)
	var imgs []models.ApartmentImage
	for _, u := range urls {
		img, err := AddImage(db, a.ID, u)
		require.NoError(t, err)
		imgs = append(imgs, *img)
	}
	return a, imgs
}

func TestAddImage_FirstIsCoverAndOrderAppends(t *testing.T) {
	db := newTestDB(t)
	_, imgs := createWithImages(t, db, "u1", "u2", "u3")

	assert.True(t, imgs[0].IsCover)
	assert.False(t, imgs[1].IsCover)
	assert.Equal(t, []int{0, 1, 2}, []int{imgs[0].SortOrder, imgs[1].SortOrder, imgs[2].SortOrder})

	_, err := AddImage(db, 999, "x")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAddImage_ConcurrentUploadsKeepOneCover(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	a, _ := createWithImages(t, db)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := AddImage(db, a.ID, fmt.Sprintf("u%d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	imgs, err := ListImages(db, a.ID)
	require.NoError(t, err)
	require.Len(t, imgs, 5)
	covers := 0
	for i, img := range imgs {
		assert.Equal(t, i, img.SortOrder)
		if img.IsCover {
			covers++
		}
	}
	assert.Equal(t, 1, covers)
}

func TestReorderImages(t *testing.T) {
	db := newTestDB(t)
	a, imgs := createWithImages(t, db, "u1", "u2", "u3")

	require.NoError(t, ReorderImages(db, a.ID, []uint{imgs[2].ID, imgs[0].ID, imgs[1].ID}))
	got, err := ListImages(db, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u3", "u1", "u2"}, []string{got[0].URL, got[1].URL, got[2].URL})

	assert.ErrorIs(t, ReorderImages(db, a.ID, []uint{imgs[0].ID, 12345}), ErrInvalidImageOrder)
	assert.ErrorIs(t, ReorderImages(db, a.ID, []uint{imgs[0].ID, imgs[0].ID}), ErrInvalidImageOrder)
	assert.ErrorIs(t, ReorderImages(db, a.ID, nil), ErrInvalidImageOrder)

	assert.ErrorIs(t, ReorderImages(db, a.ID, []uint{imgs[1].ID}), ErrInvalidImageOrder)
	got, err = ListImages(db, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, []int{got[0].SortOrder, got[1].SortOrder, got[2].SortOrder})
	assert.Equal(t, []string{"u3", "u1", "u2"}, []string{got[0].URL, got[1].URL, got[2].URL})
}

func TestSetCover_KeepsSingleCover(t *testing.T) {
	db := newTestDB(t)
	a, imgs := createWithImages(t, db, "u1", "u2", "u3")

	require.NoError(t, SetCover(db, a.ID, imgs[2].ID))

	var covers []models.ApartmentImage
	require.NoError(t, db.Where("apartment_id = ? AND is_cover = ?", a.ID, true).Find(&covers).Error)
	require.Len(t, covers, 1)
	assert.Equal(t, imgs[2].ID, covers[0].ID)

	assert.ErrorIs(t, SetCover(db, a.ID, 9999), gorm.ErrRecordNotFound)
}

func TestDeleteImage_RowGoesEvenWhenBlobDeleteFails(t *testing.T) {
	db := newTestDB(t)
	a, imgs := createWithImages(t, db, "https://cdn/u1", "https://cdn/u2")
	blobs := &fakeBlobs{err: errors.New("storage unavailable")}

	require.NoError(t, DeleteImage(context.Background(), db, blobs, a.ID, imgs[0].ID))

	assert.Equal(t, []string{"https://cdn/u1"}, blobs.deleted)
	var n int64
	db.Model(&models.ApartmentImage{}).Where("id = ?", imgs[0].ID).Count(&n)
	assert.Zero(t, n)

	// the remaining image inherits the cover flag
	var rest models.ApartmentImage
	require.NoError(t, db.First(&rest, imgs[1].ID).Error)
	assert.True(t, rest.IsCover)
}

func TestDeleteImage_WrongApartment(t *testing.T) {
	db := newTestDB(t)
	_, imgs := createWithImages(t, db, "u1")
	err := DeleteImage(context.Background(), db, &fakeBlobs{}, 777, imgs[0].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteApartment_Cascades(t *testing.T) {
	db := newTestDB(t)
	a, _ := createWithImages(t, db, "https://cdn/u1", "https://cdn/u2")
	am := models.Amenity{NameRu: "Wi-Fi"}
	require.NoError(t, db.Create(&am).Error)
	require.NoError(t, db.Model(&a).Association("Amenities").Append(&am))
	lead := models.ViewingRequest{Name: "n", Phone: "p", ApartmentID: &a.ID}
	require.NoError(t, db.Create(&lead).Error)

	blobs := &fakeBlobs{err: errors.New("boom")}
	require.NoError(t, DeleteApartment(context.Background(), db, blobs, a.ID))

	assert.ElementsMatch(t, []string{"https://cdn/u1", "https://cdn/u2"}, blobs.deleted)
	var n int64
	db.Model(&models.ApartmentImage{}).Where("apartment_id = ?", a.ID).Count(&n)
	assert.Zero(t, n)
	db.Table("apartment_amenities").Where("apartment_id = ?", a.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.Amenity{}).Count(&n)
	assert.Equal(t, int64(1), n)

	var kept models.ViewingRequest
	require.NoError(t, db.First(&kept, lead.ID).Error)
	assert.Nil(t, kept.ApartmentID)

	assert.ErrorIs(t, DeleteApartment(context.Background(), db, blobs, a.ID), gorm.ErrRecordNotFound)
}

func TestDeleteDistrict_CascadeIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	a, _ := createWithImages(t, db, "https://cdn/u1")
	b := models.Apartment{TitleRu: "Second", DistrictID: a.DistrictID}
	require.NoError(t, db.Create(&b).Error)
	_, err := AddImage(db, b.ID, "https://cdn/u2")
	require.NoError(t, err)
	sub := models.ApartmentSubscription{Email: "a@b.c", DistrictID: uintp(a.DistrictID), IsActive: true}
	require.NoError(t, db.Create(&sub).Error)
	blobs := &fakeBlobs{}

	n, err := DeleteDistrict(context.Background(), db, blobs, a.DistrictID, false)
	assert.ErrorIs(t, err, ErrDistrictInUse)
	assert.Equal(t, 2, n)

	// fail the second apartment delete and expect the first to be rolled back
	deletes := 0
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("test:fail_second_apartment", func(tx *gorm.DB) {
		if tx.Statement.Table == "apartments" {
			deletes++
			if deletes == 2 {
				_ = tx.AddError(errors.New("disk full"))
			}
		}
	}))
	_, err = DeleteDistrict(context.Background(), db, blobs, a.DistrictID, true)
	require.Error(t, err)
	var count int64
	db.Model(&models.Apartment{}).Where("district_id = ?", a.DistrictID).Count(&count)
	assert.Equal(t, int64(2), count)
	db.Model(&models.ApartmentImage{}).Count(&count)
	assert.Equal(t, int64(2), count)
	assert.Empty(t, blobs.deleted)
	require.NoError(t, db.Callback().Delete().Remove("test:fail_second_apartment"))

	n, err = DeleteDistrict(context.Background(), db, blobs, a.DistrictID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"https://cdn/u1", "https://cdn/u2"}, blobs.deleted)
	db.Model(&models.Apartment{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.District{}).Count(&count)
	assert.Zero(t, count)
	var kept models.ApartmentSubscription
	require.NoError(t, db.First(&kept, sub.ID).Error)
	assert.Nil(t, kept.DistrictID)

	_, err = DeleteDistrict(context.Background(), db, blobs, a.DistrictID, true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSubscribe_ReactivatesInsteadOfDuplicating(t *testing.T) {
	db := newTestDB(t)

	_, created, err := Subscribe(db, " Reader@Mail.ru ", "ru")
	require.NoError(t, err)
	assert.True(t, created)

	_, _, err = Subscribe(db, "reader@mail.ru", "ru")
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	require.NoError(t, Unsubscribe(db, "reader@mail.ru"))
	assert.ErrorIs(t, Unsubscribe(db, "reader@mail.ru"), gorm.ErrRecordNotFound)

	sub, created, err := Subscribe(db, "reader@mail.ru", "en")
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, sub.IsActive)

	var rows []models.NewsletterSubscription
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsActive)
	assert.Equal(t, "en", rows[0].Locale)
}

func TestSaveBlogPost_SlugAndPublishOnce(t *testing.T) {
	db := newTestDB(t)
	t0 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	p := models.BlogPost{TitleRu: "Виза по прилёту", ContentRu: "слово слово"}
	require.NoError(t, SaveBlogPost(db, &p, t0))
	assert.Equal(t, "viza-po-priletu", p.Slug)
	assert.Nil(t, p.PublishedAt)
	assert.Equal(t, 1, p.ReadTime)

	other := models.BlogPost{TitleRu: "Виза по прилёту"}
	require.NoError(t, SaveBlogPost(db, &other, t0))
	assert.Equal(t, "viza-po-priletu-2", other.Slug)

	p.Published = true
	require.NoError(t, SaveBlogPost(db, &p, t0))
	require.NotNil(t, p.PublishedAt)
	assert.True(t, p.PublishedAt.Equal(t0))

	// publishing again keeps the original timestamp
	p.TitleEn = "Visa on arrival"
	require.NoError(t, SaveBlogPost(db, &p, t0.Add(48*time.Hour)))
	var stored models.BlogPost
	require.NoError(t, db.First(&stored, p.ID).Error)
	require.NotNil(t, stored.PublishedAt)
	assert.True(t, stored.PublishedAt.Equal(t0))
	assert.Equal(t, "viza-po-priletu", stored.Slug)
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	_, err := CreateUser(db, "Owner@Site.io", "pa55word", "Owner")
	require.NoError(t, err)

	hash, err := utils.HashPassword("fallback-pass")
	require.NoError(t, err)
	fb := FallbackAdmin{Email: "admin@site.io", PasswordHash: hash}

	u, err := Authenticate(db, fb, "owner@site.io", "pa55word")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.NotZero(t, u.ID)

	_, err = Authenticate(db, fb, "owner@site.io", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// absent user falls back to the built-in admin
	u, err = Authenticate(db, fb, "admin@site.io", "fallback-pass")
	require.NoError(t, err)
	assert.Zero(t, u.ID)

	// no database at all
	u, err = Authenticate(nil, fb, "ADMIN@site.io", "fallback-pass")
	require.NoError(t, err)
	assert.Equal(t, "admin@site.io", u.Email)

	_, err = Authenticate(nil, FallbackAdmin{}, "admin@site.io", "fallback-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
