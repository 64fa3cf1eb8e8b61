package gdrive

import "fmt"

// ViewURL is the Drive preview page of id.
func ViewURL(id string) string {
	return "https://drive.google.com/file/d/" + id + "/view"
}

// DisplayURL serves id as an image suitable for <img> tags.
func DisplayURL(id string) string {
	return "https://lh3.googleusercontent.com/d/" + id
}

// ThumbnailURL is DisplayURL cropped to width x height.
func ThumbnailURL(id string, width, height int) string {
	return fmt.Sprintf("%s=w%d-h%d-c", DisplayURL(id), width, height)
}
