package workspace_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/insightgraph/workspace"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDetectProjectBySolution(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "App.sln"), "")
	nested := filepath.Join(root, "src", "App", "Program.cs")
	writeFile(t, nested, "class Program {}")

	project, err := workspace.NewDetector().Detect(nested)
	require.NoError(t, err)
	assert.Equal(t, root, project.RootPath)
	assert.Equal(t, "solution", project.Kind)
	assert.Equal(t, "App", project.Name)
}

func TestDetectProjectByCsproj(t *testing.T) {
	root := t.TempDir()
	projDir := filepath.Join(root, "App")
	writeFile(t, filepath.Join(projDir, "App.csproj"), "")
	nested := filepath.Join(projDir, "Program.cs")
	writeFile(t, nested, "class Program {}")

	project, err := workspace.NewDetector().Detect(nested)
	require.NoError(t, err)
	assert.Equal(t, projDir, project.RootPath)
	assert.Equal(t, "csproj", project.Kind)
}

func TestDetectProjectByCsprojCollectsProjectReferences(t *testing.T) {
	root := t.TempDir()
	appDir := filepath.Join(root, "App")
	sharedDir := filepath.Join(root, "Shared")
	writeFile(t, filepath.Join(sharedDir, "Shared.csproj"), "")
	writeFile(t, filepath.Join(sharedDir, "Util.cs"), "class Util {}")
	writeFile(t, filepath.Join(appDir, "App.csproj"), `<Project>
  <ItemGroup>
    <ProjectReference Include="..\Shared\Shared.csproj" />
  </ItemGroup>
</Project>`)
	nested := filepath.Join(appDir, "Program.cs")
	writeFile(t, nested, "class Program {}")

	project, err := workspace.NewDetector().Detect(nested)
	require.NoError(t, err)
	require.Len(t, project.References, 1)
	assert.Equal(t, filepath.Join(sharedDir, "Shared.csproj"), project.References[0])
}

func TestLoadMergesReferencedProjectSources(t *testing.T) {
	root := t.TempDir()
	appDir := filepath.Join(root, "App")
	sharedDir := filepath.Join(root, "Shared")
	writeFile(t, filepath.Join(sharedDir, "Shared.csproj"), "")
	writeFile(t, filepath.Join(sharedDir, "Util.cs"), "class Util {}")
	writeFile(t, filepath.Join(appDir, "App.csproj"), `<Project>
  <ItemGroup>
    <ProjectReference Include="..\Shared\Shared.csproj" />
  </ItemGroup>
</Project>`)
	writeFile(t, filepath.Join(appDir, "Program.cs"), "class Program {}")

	ws, err := workspace.Load(context.Background(), filepath.Join(appDir, "Program.cs"))
	require.NoError(t, err)

	assert.Contains(t, ws.Sources, "Program.cs")
	assert.Contains(t, ws.Sources, "Shared/Util.cs", "expected the referenced project's source to be merged in")
}

func TestLoadRootReadsCsFilesAndSkipsBuildOutput(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Program.cs"), "class Program {}")
	writeFile(t, filepath.Join(root, "Models", "User.cs"), "class User {}")
	writeFile(t, filepath.Join(root, "bin", "Debug", "Generated.cs"), "class Generated {}")
	writeFile(t, filepath.Join(root, "README.md"), "not C#")

	ws, err := workspace.LoadRoot(context.Background(), root)
	require.NoError(t, err)

	assert.Contains(t, ws.Sources, "Program.cs")
	assert.Contains(t, ws.Sources, filepath.ToSlash(filepath.Join("Models", "User.cs")))
	assert.NotContains(t, ws.Sources, filepath.ToSlash(filepath.Join("bin", "Debug", "Generated.cs")))
	assert.Len(t, ws.Sources, 2)
}
