package source

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigsite/internal/domain/directory"
	"sigsite/internal/domain/syncconfig"
)

func remoteConfig() syncconfig.Config {
	return syncconfig.Config{
		SheetsAPIKey:  "test-key",
		SpreadsheetID: testSpreadsheetID,
		DriveAPIKey:   "drive-key",
		PhotoFolderID: "folder-1",
	}
}

func TestSheetsSource_PartialFailure(t *testing.T) {
	f, opts := newFakeGoogle(t)
	f.ranges["Executive Board"] = fakeRange{values: [][]string{
		{"Name", "Role", "Major", "Year", "LinkedIn URL"},
		{"Ada", "President", "CS", "Senior", "https://linkedin.com/in/ada"},
		{"Grace", "Vice President", "Math"},
	}}
	f.ranges["General Members"] = fakeRange{status: http.StatusInternalServerError}
	f.ranges["Alumni"] = fakeRange{values: [][]string{{"Name", "Company"}}}

	ctx := context.Background()
	src, err := NewSheetsSource(ctx, remoteConfig(), nil, opts...)
	require.NoError(t, err)

	res, err := src.Load(ctx)
	require.NoError(t, err)

	require.Len(t, res.Directory.Leadership, 2)
	assert.Equal(t, "Ada", res.Directory.Leadership[0].Name)
	assert.Equal(t, "https://linkedin.com/in/ada", res.Directory.Leadership[0].ContactLink)
	assert.Equal(t, "", res.Directory.Leadership[1].Period)
	assert.Equal(t, directory.NoContactLink, res.Directory.Leadership[1].ContactLink)

	assert.Empty(t, res.Directory.General)
	assert.Empty(t, res.Directory.Alumni)

	assert.True(t, res.Fetched[directory.CategoryLeadership])
	assert.False(t, res.Fetched[directory.CategoryGeneral], "failed category must not be re-rendered")
	assert.True(t, res.Fetched[directory.CategoryAlumni], "header-only category renders as empty")

	assert.Contains(t, res.Warnings, "failed to fetch general data: Internal Server Error")
	assert.Contains(t, res.Warnings, "no data found in alumni sheet")
}

func TestSheetsSource_AllCategoriesFail(t *testing.T) {
	f, opts := newFakeGoogle(t)
	for _, name := range []string{"Executive Board", "General Members", "Alumni"} {
		f.ranges[name] = fakeRange{status: http.StatusBadGateway}
	}

	ctx := context.Background()
	src, err := NewSheetsSource(ctx, remoteConfig(), nil, opts...)
	require.NoError(t, err)

	_, err = src.Load(ctx)
	var unavailable *directory.SourceUnavailableError
	require.True(t, errors.As(err, &unavailable), "got %v", err)
	assert.Equal(t, NameSheets, unavailable.Source)

	var fetch *directory.RemoteFetchError
	require.True(t, errors.As(err, &fetch))
	assert.Equal(t, http.StatusBadGateway, fetch.StatusCode)
}

func TestSheetsSource_AuthRejectedAbortsCycle(t *testing.T) {
	f, opts := newFakeGoogle(t)
	f.ranges["Executive Board"] = fakeRange{values: [][]string{{"Name"}, {"Ada"}}}
	f.ranges["General Members"] = fakeRange{status: http.StatusForbidden}
	f.ranges["Alumni"] = fakeRange{values: [][]string{{"Name"}, {"Barbara"}}}

	ctx := context.Background()
	src, err := NewSheetsSource(ctx, remoteConfig(), nil, opts...)
	require.NoError(t, err)

	_, err = src.Load(ctx)
	var auth *directory.AuthRejectedError
	require.True(t, errors.As(err, &auth), "got %v", err)
	assert.Equal(t, http.StatusForbidden, auth.StatusCode)
}

func TestSheetsSource_CustomRangesAndPhotos(t *testing.T) {
	f, opts := newFakeGoogle(t)
	f.ranges["Board"] = fakeRange{values: [][]string{
		{"Name", "Photo Filename"},
		{"Ada", "ada.jpg"},
		{"Grace", "b.jpg"},
	}}
	f.ranges["Members"] = fakeRange{values: [][]string{
		{"Name", "Interest Area", "Year"},
		{"Linus", "Systems", "Sophomore"},
	}}
	f.ranges["Alumni"] = fakeRange{values: [][]string{
		{"Name", "Current Role", "Company", "Graduation Year"},
		{"Barbara", "Engineer", "Acme", "2019"},
	}}
	f.files["ada.jpg"] = "drive-file-ada"

	cfg := remoteConfig()
	cfg.LeadershipRange = "Board"
	cfg.GeneralRange = "Members"

	ctx := context.Background()
	photos, err := NewPhotoResolver(ctx, cfg, NewPhotoCache(nil), opts...)
	require.NoError(t, err)
	src, err := NewSheetsSource(ctx, cfg, photos, opts...)
	require.NoError(t, err)

	res, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	require.Len(t, res.Directory.Leadership, 2)
	assert.Equal(t, DriveDownloadURL("drive-file-ada"), res.Directory.Leadership[0].PhotoRef)
	assert.Equal(t, directory.PlaceholderPhoto, res.Directory.Leadership[1].PhotoRef)

	require.Len(t, res.Directory.General, 1)
	assert.Equal(t, "Systems", res.Directory.General[0].InterestTag)
	assert.Equal(t, "sophomore", res.Directory.General[0].FilterLabel)

	require.Len(t, res.Directory.Alumni, 1)
	assert.Equal(t, directory.Record{
		Name:        "Barbara",
		Category:    directory.CategoryAlumni,
		RoleOrTitle: "Engineer",
		Affiliation: "Acme",
		Period:      "2019",
		PhotoRef:    directory.PlaceholderPhoto,
		ContactLink: directory.NoContactLink,
	}, res.Directory.Alumni[0])
}

func TestNewSheetsSource_RequiresConfiguration(t *testing.T) {
	_, err := NewSheetsSource(context.Background(), syncconfig.Config{SheetsAPIKey: "k"}, nil)
	assert.Error(t, err)
}
