package files

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/ryansb/lambdactl/pkg/io/logging"
)

func PrettyJSONToFile(filePath string, fileName string, s interface{}) {
	logger := logging.GetLogManager()
	if err := os.MkdirAll(filePath, os.FileMode(0775)); err != nil {
		logging.HandleError(err, "Files - PrettyJSONToFile", "Error on creating/reading output folder")
	}

	filePath = filePath + string(filepath.Separator) + fileName
	if err := os.WriteFile(filePath, logger.PrettyJSON(s), 0600); err != nil {
		logging.HandleError(err, "Files - PrettyJSONToFile", "Error on writing file")
	}
}

func NormalizePath(path string) string {
	usr, _ := user.Current()
	dir := usr.HomeDir
	if path == "~" {
		path = dir
	} else if strings.HasPrefix(path, "~/") {
		path = filepath.Join(dir, path[2:])
	}

	path, _ = filepath.Abs(filepath.Clean(path))
	return path
}

// Exists reports whether path names a regular file.
func Exists(path string) bool {
	info, err := os.Stat(NormalizePath(path))
	return err == nil && info.Mode().IsRegular()
}
