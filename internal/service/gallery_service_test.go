package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/deartime/deartime-backend/internal/common"
	"github.com/deartime/deartime-backend/internal/domain"
	"github.com/deartime/deartime-backend/internal/repository"
	"github.com/deartime/deartime-backend/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubStorage records uploads and deletes in memory
type stubStorage struct {
	uploads []string
	deletes []string
	fail    bool
}

func (s *stubStorage) Upload(_ context.Context, key string, _ io.Reader, contentType string, size int64) (*storage.UploadResult, error) {
	if s.fail {
		return nil, fmt.Errorf("storage unavailable")
	}
	s.uploads = append(s.uploads, key)
	return &storage.UploadResult{
		Key:         key,
		URL:         "https://bucket.s3.amazonaws.com/" + key,
		ContentType: contentType,
		Size:        size,
	}, nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return nil
}

func newGalleryService(db *gorm.DB, store ObjectStorage) GalleryService {
	return NewGalleryService(
		repository.NewPhotoRepository(db),
		repository.NewAlbumRepository(db),
		repository.NewUserRepository(db),
		store,
		nil,
	)
}

func testImage(name string) *ImageUpload {
	return &ImageUpload{
		Body:        strings.NewReader("이미지"),
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        9,
	}
}

func uploadTestPhoto(t *testing.T, svc GalleryService, userID uint64, caption string) uint64 {
	t.Helper()
	photos, err := svc.UploadPhotos(userID, &domain.PhotoUploadRequest{Caption: caption},
		[]*ImageUpload{testImage("pic.jpg")})
	require.NoError(t, err)
	require.Len(t, photos, 1)
	return photos[0].PhotoID
}

func TestUploadPhotos(t *testing.T) {
	db := setupTestDB(t)
	store := &stubStorage{}
	svc := newGalleryService(db, store)
	alice := createTestUser(t, db, "alice")

	photos, err := svc.UploadPhotos(alice.ID, &domain.PhotoUploadRequest{Caption: "여행"},
		[]*ImageUpload{testImage("a.jpg"), testImage("b.jpg")})
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Len(t, store.uploads, 2)

	for _, p := range photos {
		assert.Equal(t, "여행", p.Caption)
		assert.NotEmpty(t, p.ImageURL)
		assert.NotNil(t, p.TakenAt)
	}

	var count int64
	db.Model(&domain.Photo{}).Where("user_id = ?", alice.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestUploadPhotos_NoFiles(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")

	_, err := svc.UploadPhotos(alice.ID, &domain.PhotoUploadRequest{}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestUploadPhotos_StorageFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{fail: true})
	alice := createTestUser(t, db, "alice")

	_, err := svc.UploadPhotos(alice.ID, &domain.PhotoUploadRequest{},
		[]*ImageUpload{testImage("a.jpg")})
	assert.ErrorIs(t, err, common.ErrStorage)

	// 저장소 실패 시 사진 행은 남지 않는다
	var count int64
	db.Model(&domain.Photo{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUploadPhotos_IntoAlbum(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")

	album, err := svc.CreateAlbum(alice.ID, &domain.AlbumCreateRequest{Title: "봄"})
	require.NoError(t, err)

	photos, err := svc.UploadPhotos(alice.ID,
		&domain.PhotoUploadRequest{AlbumID: &album.AlbumID},
		[]*ImageUpload{testImage("spring.jpg")})
	require.NoError(t, err)

	inAlbum, meta, err := svc.ListAlbumPhotos(album.AlbumID, alice.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), meta.Total)
	require.Len(t, inAlbum, 1)
	assert.Equal(t, photos[0].PhotoID, inAlbum[0].PhotoID)
}

func TestUploadPhotos_OthersAlbumForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	album, err := svc.CreateAlbum(bob.ID, &domain.AlbumCreateRequest{Title: "밥의 앨범"})
	require.NoError(t, err)

	_, err = svc.UploadPhotos(alice.ID,
		&domain.PhotoUploadRequest{AlbumID: &album.AlbumID},
		[]*ImageUpload{testImage("a.jpg")})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestUpdateCaption(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")
	photoID := uploadTestPhoto(t, svc, alice.ID, "이전 캡션")

	photo, err := svc.UpdateCaption(photoID, alice.ID, "새 캡션")
	require.NoError(t, err)
	assert.Equal(t, "새 캡션", photo.Caption)

	var stored domain.Photo
	require.NoError(t, db.First(&stored, photoID).Error)
	assert.Equal(t, "새 캡션", stored.Caption)
}

func TestUpdateCaption_OwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	photoID := uploadTestPhoto(t, svc, alice.ID, "내 사진")

	_, err := svc.UpdateCaption(photoID, bob.ID, "남의 캡션")
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.UpdateCaption(9999, alice.ID, "없는 사진")
	assert.ErrorIs(t, err, common.ErrItemNotFound)
}

func TestDeletePhoto(t *testing.T) {
	db := setupTestDB(t)
	store := &stubStorage{}
	svc := newGalleryService(db, store)
	alice := createTestUser(t, db, "alice")
	photoID := uploadTestPhoto(t, svc, alice.ID, "삭제 대상")

	require.NoError(t, svc.DeletePhoto(photoID, alice.ID))

	var count int64
	db.Model(&domain.Photo{}).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.Len(t, store.deletes, 1)
}

func TestDeletePhoto_ClearsAlbumCoverAndLinks(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")
	photoID := uploadTestPhoto(t, svc, alice.ID, "커버")

	album, err := svc.CreateAlbum(alice.ID, &domain.AlbumCreateRequest{
		Title:        "커버 앨범",
		CoverPhotoID: &photoID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePhoto(photoID, alice.ID))

	// 커버는 해제되고 앨범 자체는 남는다
	var stored domain.Album
	require.NoError(t, db.First(&stored, album.AlbumID).Error)
	assert.Nil(t, stored.CoverPhotoID)

	var links int64
	db.Model(&domain.AlbumPhoto{}).Count(&links)
	assert.Equal(t, int64(0), links)
}

func TestCreateAlbum_WithCover(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")
	photoID := uploadTestPhoto(t, svc, alice.ID, "커버 사진")

	album, err := svc.CreateAlbum(alice.ID, &domain.AlbumCreateRequest{
		Title:        "우리 가족",
		CoverPhotoID: &photoID,
	})
	require.NoError(t, err)
	assert.Equal(t, "우리 가족", album.Title)
	assert.NotEmpty(t, album.CoverURL)
	assert.Equal(t, int64(1), album.PhotoCount)
}

func TestCreateAlbum_OthersCoverForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	photoID := uploadTestPhoto(t, svc, bob.ID, "밥의 사진")

	_, err := svc.CreateAlbum(alice.ID, &domain.AlbumCreateRequest{
		Title:        "훔친 커버",
		CoverPhotoID: &photoID,
	})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestListAlbums(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.CreateAlbum(alice.ID, &domain.AlbumCreateRequest{Title: "여행"})
	require.NoError(t, err)
	_, err = svc.CreateAlbum(alice.ID, &domain.AlbumCreateRequest{Title: "일상"})
	require.NoError(t, err)
	_, err = svc.CreateAlbum(bob.ID, &domain.AlbumCreateRequest{Title: "밥의 앨범"})
	require.NoError(t, err)

	albums, err := svc.ListAlbums(alice.ID)
	require.NoError(t, err)
	assert.Len(t, albums, 2)
}

func TestUpdateAlbumTitle(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	album, err := svc.CreateAlbum(alice.ID, &domain.AlbumCreateRequest{Title: "이전 이름"})
	require.NoError(t, err)

	updated, err := svc.UpdateAlbumTitle(album.AlbumID, alice.ID, "새 이름")
	require.NoError(t, err)
	assert.Equal(t, "새 이름", updated.Title)

	_, err = svc.UpdateAlbumTitle(album.AlbumID, bob.ID, "남의 이름")
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestDeleteAlbum_PhotosSurvive(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")
	photoID := uploadTestPhoto(t, svc, alice.ID, "남는 사진")

	album, err := svc.CreateAlbum(alice.ID, &domain.AlbumCreateRequest{Title: "지울 앨범"})
	require.NoError(t, err)
	_, err = svc.AddPhotosToAlbum(album.AlbumID, alice.ID, []uint64{photoID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAlbum(album.AlbumID, alice.ID))

	var albumCount, photoCount int64
	db.Model(&domain.Album{}).Count(&albumCount)
	db.Model(&domain.Photo{}).Count(&photoCount)
	assert.Equal(t, int64(0), albumCount)
	assert.Equal(t, int64(1), photoCount)
}

func TestAddPhotosToAlbum_SkipsDuplicates(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")
	first := uploadTestPhoto(t, svc, alice.ID, "하나")
	second := uploadTestPhoto(t, svc, alice.ID, "둘")

	album, err := svc.CreateAlbum(alice.ID, &domain.AlbumCreateRequest{Title: "모음"})
	require.NoError(t, err)

	added, err := svc.AddPhotosToAlbum(album.AlbumID, alice.ID, []uint64{first})
	require.NoError(t, err)
	assert.Len(t, added, 1)

	// 이미 있는 사진은 건너뛰고 새 사진만 추가된다
	added, err = svc.AddPhotosToAlbum(album.AlbumID, alice.ID, []uint64{first, second})
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, second, added[0].PhotoID)
}

func TestAddPhotosToAlbum_OthersPhotoForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	bobPhoto := uploadTestPhoto(t, svc, bob.ID, "밥의 사진")

	album, err := svc.CreateAlbum(alice.ID, &domain.AlbumCreateRequest{Title: "내 앨범"})
	require.NoError(t, err)

	_, err = svc.AddPhotosToAlbum(album.AlbumID, alice.ID, []uint64{bobPhoto})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestListAlbumPhotos_OwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	album, err := svc.CreateAlbum(alice.ID, &domain.AlbumCreateRequest{Title: "비공개"})
	require.NoError(t, err)

	_, _, err = svc.ListAlbumPhotos(album.AlbumID, bob.ID, 1, 20)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, _, err = svc.ListAlbumPhotos(9999, alice.ID, 1, 20)
	assert.ErrorIs(t, err, common.ErrItemNotFound)
}

func TestRemovePhotoFromAlbum(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")
	photoID := uploadTestPhoto(t, svc, alice.ID, "잠깐 담김")

	album, err := svc.CreateAlbum(alice.ID, &domain.AlbumCreateRequest{Title: "모음"})
	require.NoError(t, err)
	_, err = svc.AddPhotosToAlbum(album.AlbumID, alice.ID, []uint64{photoID})
	require.NoError(t, err)

	require.NoError(t, svc.RemovePhotoFromAlbum(album.AlbumID, photoID, alice.ID))

	// 이미 빠진 사진의 제거는 not found
	err = svc.RemovePhotoFromAlbum(album.AlbumID, photoID, alice.ID)
	assert.ErrorIs(t, err, common.ErrItemNotFound)

	// 사진 자체는 갤러리에 남는다
	photos, _, err := svc.ListPhotos(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, photos, 1)
}

func TestListPhotos_Pagination(t *testing.T) {
	db := setupTestDB(t)
	svc := newGalleryService(db, &stubStorage{})
	alice := createTestUser(t, db, "alice")

	for i := 0; i < 25; i++ {
		uploadTestPhoto(t, svc, alice.ID, fmt.Sprintf("사진 %d", i))
	}

	photos, meta, err := svc.ListPhotos(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(25), meta.Total)
	assert.Len(t, photos, 20)

	photos, _, err = svc.ListPhotos(alice.ID, 2, 20)
	require.NoError(t, err)
	assert.Len(t, photos, 5)
}
