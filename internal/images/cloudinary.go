// Dishari - Cyber Café Storefront and Admin Back-Office
// Copyright 2026 Rajat K.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rajat-k-27/dishari

// Package images uploads product photos to the image host and removes
// them when products are deleted. Size and content-type limits are
// enforced at the API boundary before bytes reach this package.
package images

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Asset is a hosted image: the delivery URL plus the host-side id
// needed to delete it later.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// CloudinaryClient uploads and deletes hosted product images.
type CloudinaryClient struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryClient returns a client uploading into the given folder.
func NewCloudinaryClient(cloudName, apiKey, apiSecret, folder string) (*CloudinaryClient, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init image host: %w", err)
	}
	return &CloudinaryClient{cld: cld, folder: folder}, nil
}

// Upload stores an image and returns its hosted asset.
func (c *CloudinaryClient) Upload(ctx context.Context, file io.Reader) (*Asset, error) {
	res, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: c.folder,
	})
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	return &Asset{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Destroy removes a hosted image by its public id.
func (c *CloudinaryClient) Destroy(ctx context.Context, publicID string) error {
	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("destroy image %s: %w", publicID, err)
	}
	return nil
}
