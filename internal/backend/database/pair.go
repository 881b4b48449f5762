package database

// ImagePair is a stored pair of image references with the similarity score
// assigned to it.
type ImagePair struct {
	ID         string `db:"id"`
	Img1       string `db:"img1"` // opaque reference: URL, filename or data URI
	Img2       string `db:"img2"`
	Similarity int    `db:"similarity"`
}
