package zip

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ryansb/lambdactl/pkg/io/logging"
)

// Zip writes one JSON file per result key into a dated archive.
func Zip(path string, profile string, values *map[string]interface{}) {
	logger := logging.GetLogManager()
	today := time.Now().Format("20060102")
	fileSeparator := string(filepath.Separator)
	profile = filepath.Clean(strings.Replace(profile, fileSeparator, "-", -1))
	filePtr, err := os.Create(fmt.Sprintf("%s%slambdactl-%s_%s.zip", filepath.Clean(path), fileSeparator, profile, today))
	if err != nil {
		logging.HandleError(err, "Zip", "Error on creating output folder")
	}
	defer func() {
		if err := filePtr.Close(); err != nil {
			logging.HandleError(err, "Zip", "Error closing file")
		}
	}()

	zipWriter := zip.NewWriter(filePtr)
	defer zipWriter.Close()

	for key, value := range *values {
		writer, err := zipWriter.Create(fmt.Sprintf("%s_%s.json", key, today))
		if err != nil {
			logging.HandleError(err, "Zip", "Error on creating ZIP entry")
		}

		_, err = writer.Write(logger.PrettyJSON(value))
		if err != nil {
			logging.HandleError(err, "Zip", "Error on writing file content")
		}
	}
}

// Base64Sha256 hashes a deployment package the way Lambda reports CodeSha256.
func Base64Sha256(path string) (string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}
