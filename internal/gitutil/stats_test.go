package gitutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoFileDiff = `diff --git a/config.py b/config.py
index 3b18e51..a8c2f0e 100644
--- a/config.py
+++ b/config.py
@@ -1,3 +1,4 @@
 import os
-DEBUG = True
+DEBUG = False
+api_key = 'sk-12345678'
 PORT = 8080
diff --git a/README.md b/README.md
new file mode 100644
index 0000000..e69de29
--- /dev/null
+++ b/README.md
@@ -0,0 +1,2 @@
+# demo
+Hello
`

func TestDiffStats(t *testing.T) {
	stats, err := DiffStats(twoFileDiff)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FilesChanged)
	assert.Equal(t, 4, stats.Additions)
	assert.Equal(t, 1, stats.Deletions)
}

func TestDiffStats_Empty(t *testing.T) {
	stats, err := DiffStats("")
	require.NoError(t, err)
	assert.Zero(t, stats.FilesChanged)
	assert.Zero(t, stats.Additions)
}
