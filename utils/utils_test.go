package utils

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/chai2010/webp"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vnkhanh/visa-rent-server/config"
	"github.com/vnkhanh/visa-rent-server/models"
)

func withSecret(t *testing.T, secret string) {
	t.Helper()
	prev := config.Get()
	config.Set(&config.Config{JWTSecret: secret})
	t.Cleanup(func() { config.Set(prev) })
}

func TestToken_RoundTrip(t *testing.T) {
	withSecret(t, "s3cret")

	tok, err := GenerateToken(7, "admin@site.io", models.RoleAdmin)
	require.NoError(t, err)

	claims, err := VerifyToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, "admin@site.io", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 30*24*time.Hour, ttl)
}

func TestToken_RejectsExpiredAndForeign(t *testing.T) {
	withSecret(t, "s3cret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	s, err := expired.SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = VerifyToken(s)
	assert.Error(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{Role: "admin"}).SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = VerifyToken(foreign)
	assert.Error(t, err)
}

func TestToken_MissingSecret(t *testing.T) {
	withSecret(t, "")
	_, err := GenerateToken(1, "a@b.c", "admin")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, "hunter2"))
	assert.False(t, CheckPassword(h, "hunter3"))
	assert.False(t, CheckPassword("", "hunter2"))
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Виза во Вьетнам 2025":         "viza-vo-vetnam-2025",
		"  Hello,   World!  ":          "hello-world",
		"Thủ tục xin visa Đà Nẵng":     "thu-tuc-xin-visa-da-nang",
		"Щука и ёжик":                  "shchuka-i-ezhik",
		"Мой район":                    "moy-rayon",
		"!!!":                          "post",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
	assert.LessOrEqual(t, len(Slugify(strings.Repeat("a ", 200))), SlugMaxLen)
}

func TestUniqueSlug(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.BlogPost{}))

	s, err := UniqueSlug(db, "blog_posts", "slug", "visa", 0)
	require.NoError(t, err)
	assert.Equal(t, "visa", s)

	first := models.BlogPost{Slug: "visa", TitleRu: "a"}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&models.BlogPost{Slug: "visa-2", TitleRu: "b"}).Error)

	s, err = UniqueSlug(db, "blog_posts", "slug", "visa", 0)
	require.NoError(t, err)
	assert.Equal(t, "visa-3", s)

	// the row being edited keeps its own slug
	s, err = UniqueSlug(db, "blog_posts", "slug", "visa", first.ID)
	require.NoError(t, err)
	assert.Equal(t, "visa", s)
}

func TestObjectPathFromURL(t *testing.T) {
	p, err := ObjectPathFromURL("https://abc.supabase.co/storage/v1/object/public/apartments/12/20250101-x.webp", "apartments")
	require.NoError(t, err)
	assert.Equal(t, "12/20250101-x.webp", p)

	_, err = ObjectPathFromURL("https://cdn.example.com/img.png", "apartments")
	assert.Error(t, err)
	_, err = ObjectPathFromURL("https://abc.supabase.co/storage/v1/object/public/apartments/", "apartments")
	assert.Error(t, err)
}

func TestNewObjectPath(t *testing.T) {
	p := NewObjectPath("apartments/5", ".webp")
	assert.True(t, strings.HasPrefix(p, "apartments/5/"))
	assert.True(t, strings.HasSuffix(p, ".webp"))
	assert.NotEqual(t, p, NewObjectPath("apartments/5", ".webp"))
}

func TestWriteCSV_QuotesEverything(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"Имя", "Комментарий"}, [][]string{
		{"Anna", `he said "hi"; ok`},
		{"Bob", ""},
	})
	require.NoError(t, err)

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))
	lines := strings.Split(string(out[3:]), "\r\n")
	assert.Equal(t, `"Имя";"Комментарий"`, lines[0])
	assert.Equal(t, `"Anna";"he said ""hi""; ok"`, lines[1])
	assert.Equal(t, `"Bob";""`, lines[2])
	assert.Equal(t, "", lines[3])
}

func TestBuildXLSX(t *testing.T) {
	data, err := BuildXLSX("Requests", []string{"A", "B"}, [][]string{{"1", "x"}, {"2", "y"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Requests")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A", "B"}, {"1", "x"}, {"2", "y"}}, rows)
}

func TestToWebP_ResizesLargeImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3840, 1280))
	for x := 0; x < 3840; x += 64 {
		src.Set(x, x%1280, color.RGBA{R: 200, A: 255})
	}
	var in bytes.Buffer
	require.NoError(t, png.Encode(&in, src))

	out, err := ToWebP(&in)
	require.NoError(t, err)

	img, err := webp.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, MaxImageSide, img.Bounds().Dx())
	assert.Equal(t, 640, img.Bounds().Dy())
}

func TestToWebP_RejectsGarbage(t *testing.T) {
	_, err := ToWebP(strings.NewReader("not an image"))
	assert.Error(t, err)
}

func TestNullableInt(t *testing.T) {
	var p struct {
		A NullableInt `json:"a"`
		B NullableInt `json:"b"`
		C NullableInt `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":5,"b":null}`), &p))
	assert.True(t, p.A.Set)
	assert.Equal(t, 5, *p.A.Value)
	assert.True(t, p.B.Set)
	assert.Nil(t, p.B.Value)
	assert.False(t, p.C.Set)
}

func TestNullableFloat(t *testing.T) {
	var p struct {
		Lat NullableFloat `json:"lat"`
		Lng NullableFloat `json:"lng"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"lat":null}`), &p))
	assert.True(t, p.Lat.Set)
	assert.Nil(t, p.Lat.Value)
	assert.False(t, p.Lng.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"lng":106.7}`), &p))
	require.NotNil(t, p.Lng.Value)
	assert.Equal(t, 106.7, *p.Lng.Value)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lat":null,"lng":106.7}`, string(out))
}
