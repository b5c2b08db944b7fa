package aggregate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageDescriptor_Description(t *testing.T) {
	tests := []struct {
		name   string
		config string
		want   string
	}{
		{"assignment", "NAME=x\nDESCRIPTION=\"Minimal server image\"\n", "Minimal server image"},
		{"first match wins", "DESCRIPTION=\"one\"\nDESCRIPTION=\"two\"\n", "one"},
		{"missing", "NAME=x\n", "pi image configuration"},
		{"empty value", "DESCRIPTION=\"\"\n", "pi image configuration"},
		{"single quotes are not matched", "DESCRIPTION='quoted'\n", "pi image configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ImageDescriptor{Name: "pi", Config: tt.config}
			assert.Equal(t, tt.want, d.Description())
		})
	}
}

func TestImageDescriptor_Markdown(t *testing.T) {
	full := ImageDescriptor{
		Name:   "alpha",
		Readme: "Alpha readme",
		Config: "echo config",
		Setup:  "echo setup",
		Boot:   BootModeCloudInit,
	}
	assert.Equal(t,
		"# alpha\n\n"+
			"Alpha readme\n\n"+
			"## Configuration\n\n```bash\necho config\n```\n\n"+
			"## Setup Script\n\n```bash\necho setup\n```\n\n"+
			"## Boot Mode\n\nThis image uses **cloud-init** for initial configuration.\n\n",
		full.Markdown())

	minimal := ImageDescriptor{Name: "beta", Config: "echo beta"}
	assert.Equal(t, "# beta\n\n## Configuration\n\n```bash\necho beta\n```\n\n", minimal.Markdown())

	firstBoot := ImageDescriptor{Name: "gamma", Config: "x", Boot: BootModeFirstBoot}
	assert.Contains(t, firstBoot.Markdown(), "This image uses **first-boot service** for initial configuration.")
}

func TestImageDescriptor_MarkdownLongerFence(t *testing.T) {
	d := ImageDescriptor{Name: "fenced", Config: "cat <<EOF\n```\nEOF"}
	assert.Contains(t, d.Markdown(), "````bash\ncat <<EOF\n```\nEOF\n````\n\n")
}

func TestReadImage(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		dirs     []string
		wantErr  bool
		wantBoot BootMode
		check    func(t *testing.T, d ImageDescriptor)
	}{
		{
			name:    "missing config",
			files:   map[string]string{"README.md": "readme"},
			wantErr: true,
		},
		{
			name:     "config only",
			files:    map[string]string{"config.sh": "echo"},
			wantBoot: BootModeNone,
			check: func(t *testing.T, d ImageDescriptor) {
				assert.Empty(t, d.Readme)
				assert.Empty(t, d.Setup)
			},
		},
		{
			name:     "cloud-init wins over first-boot",
			files:    map[string]string{"config.sh": "echo"},
			dirs:     []string{"cloudinit", "first-boot"},
			wantBoot: BootModeCloudInit,
		},
		{
			name:     "first-boot",
			files:    map[string]string{"config.sh": "echo"},
			dirs:     []string{"first-boot"},
			wantBoot: BootModeFirstBoot,
		},
		{
			name: "readme header is dropped",
			files: map[string]string{
				"config.sh": "echo",
				"README.md": "---\ntitle: Alpha\n---\n\nBody\n",
				"setup.sh":  "echo setup",
			},
			check: func(t *testing.T, d ImageDescriptor) {
				assert.Equal(t, "Body\n", d.Readme)
				assert.Equal(t, "echo setup", d.Setup)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, root, "img/"+name, content)
			}
			for _, d := range tt.dirs {
				mkdir(t, root, "img/"+d)
			}
			mkdir(t, root, "img")

			d, err := ReadImage(filepath.Join(root, "img"))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "img", d.Name)
			assert.Equal(t, tt.wantBoot, d.Boot)
			if tt.check != nil {
				tt.check(t, d)
			}
		})
	}
}

func TestReadmeOutputName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"README.md", "README.md"},
		{"./README.md", "README.md"},
		{".github/README.md", "github-README.md"},
		{"docs/guide/INSTALL.md", "guide-INSTALL.md"},
		{"../README.md", "README.md"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, readmeOutputName(tt.path))
		})
	}
}
