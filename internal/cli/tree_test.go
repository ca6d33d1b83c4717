package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/transit/internal/errors"
	"github.com/mrz1836/transit/internal/migration"
	"github.com/mrz1836/transit/internal/testutil"
)

const treeStandalone = `
children:
  extension:
    org.jboss.as.ejb3: {}
  socket-binding-group:
    standard-sockets:
      children:
        socket-binding:
          https: {}
          http: {}
  subsystem:
    undertow: {}
    ejb3: {}
`

const treeDomain = `
children:
  profile:
    full:
      children:
        subsystem:
          ejb3: {}
    default:
      children:
        subsystem:
          ejb3: {}
          logging: {}
`

func TestRunTree_Walk(t *testing.T) {
	t.Parallel()
	path := testutil.WriteFile(t, t.TempDir(), "standalone.yaml", treeStandalone)

	rows, err := runTree(context.Background(), &treeOptions{config: path})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"/extension=org.jboss.as.ejb3", "extension", "org.jboss.as.ejb3"},
		{"/socket-binding-group=standard-sockets", "socket-binding-group", "standard-sockets"},
		{"/socket-binding-group=standard-sockets/socket-binding=http", "socket-binding", "http"},
		{"/socket-binding-group=standard-sockets/socket-binding=https", "socket-binding", "https"},
		{"/subsystem=ejb3", "subsystem", "ejb3"},
		{"/subsystem=undertow", "subsystem", "undertow"},
	}, rows)
}

func TestRunTree_Find(t *testing.T) {
	t.Parallel()
	path := testutil.WriteFile(t, t.TempDir(), "domain.yaml", treeDomain)

	tests := []struct {
		name string
		kind string
		res  string
		want [][]string
	}{
		{
			name: "every subsystem",
			kind: "subsystem",
			want: [][]string{
				{"/profile=default/subsystem=ejb3", "subsystem", "ejb3"},
				{"/profile=default/subsystem=logging", "subsystem", "logging"},
				{"/profile=full/subsystem=ejb3", "subsystem", "ejb3"},
			},
		},
		{
			name: "named subsystem",
			kind: "subsystem",
			res:  "ejb3",
			want: [][]string{
				{"/profile=default/subsystem=ejb3", "subsystem", "ejb3"},
				{"/profile=full/subsystem=ejb3", "subsystem", "ejb3"},
			},
		},
		{
			name: "kind without resources",
			kind: "server-group",
			want: [][]string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rows, err := runTree(context.Background(), &treeOptions{config: path, kind: tc.kind, name: tc.res})
			require.NoError(t, err)
			assert.Equal(t, tc.want, rows)
		})
	}
}

func TestRunTree_FindManagementKinds(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bare := testutil.WriteFile(t, dir, "standalone.yaml", treeStandalone)
	managed := testutil.WriteFile(t, dir, "standalone-full.yaml", `
children:
  core-service:
    management:
      children:
        security-realm:
          ManagementRealm: {}
          ApplicationRealm: {}
`)

	tests := []struct {
		name string
		path string
		kind string
		want [][]string
	}{
		{name: "realms without core-service", path: bare, kind: "security-realm", want: [][]string{}},
		{name: "interfaces without core-service", path: bare, kind: "management-interface", want: [][]string{}},
		{
			name: "realms under core-service",
			path: managed,
			kind: "security-realm",
			want: [][]string{
				{"/core-service=management/security-realm=ApplicationRealm", "security-realm", "ApplicationRealm"},
				{"/core-service=management/security-realm=ManagementRealm", "security-realm", "ManagementRealm"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rows, err := runTree(context.Background(), &treeOptions{config: tc.path, kind: tc.kind})
			require.NoError(t, err)
			assert.Equal(t, tc.want, rows)
		})
	}
}

func TestRunTree_Errors(t *testing.T) {
	t.Parallel()
	path := testutil.WriteFile(t, t.TempDir(), "standalone.yaml", treeStandalone)

	tests := []struct {
		name     string
		opts     treeOptions
		wantErr  error
		wantCode int
	}{
		{
			name:     "name without kind",
			opts:     treeOptions{config: path, name: "ejb3"},
			wantErr:  errors.ErrInvalidArgument,
			wantCode: ExitInvalidInput,
		},
		{
			name:     "unknown kind",
			opts:     treeOptions{config: path, kind: "datasource"},
			wantErr:  errors.ErrUnknownKind,
			wantCode: ExitInvalidInput,
		},
		{
			name:     "unknown root type",
			opts:     treeOptions{config: path, root: "cluster"},
			wantErr:  errors.ErrInvalidArgument,
			wantCode: ExitInvalidInput,
		},
		{
			name:     "missing snapshot",
			opts:     treeOptions{config: path + ".missing"},
			wantCode: ExitError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			opts := tc.opts
			_, err := runTree(context.Background(), &opts)
			require.Error(t, err)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			}
			assert.Equal(t, tc.wantCode, ExitCodeForError(err))
		})
	}
}

func TestRootType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		flag string
		path string
		want migration.ConfigType
	}{
		{name: "standalone file", path: "standalone/configuration/standalone-full.yaml", want: migration.ConfigStandalone},
		{name: "domain file", path: "domain/configuration/domain.yaml", want: migration.ConfigDomain},
		{name: "host file", path: "domain/configuration/host-slave.yaml", want: migration.ConfigHost},
		{name: "unrecognized file", path: "snapshot.yaml", want: migration.ConfigStandalone},
		{name: "flag wins", flag: "host", path: "domain.yaml", want: migration.ConfigHost},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := rootType(tc.flag, tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
