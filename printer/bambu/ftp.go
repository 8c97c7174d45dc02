package bambu

import (
	"crypto/tls"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
)

// The file channel is implicit FTPS on the printer's SD card.
const (
	ftpsPort          = 990
	ftpTimeout        = 10 * time.Second
	defaultUploadName = "ftp_upload.gcode"
)

func (p *Printer) ftpConnect() (*ftp.ServerConn, error) {
	addr := fmt.Sprintf("%s:%d", p.ipAddress, ftpsPort)
	conn, err := ftp.Dial(addr,
		ftp.DialWithTimeout(ftpTimeout),
		ftp.DialWithTLS(&tls.Config{InsecureSkipVerify: true}),
	)
	if err != nil {
		return nil, fmt.Errorf("ftps dial %s: %w", addr, err)
	}
	if err := conn.Login(DefaultUsername, p.accessCode); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("ftps login: %w", err)
	}
	return conn, nil
}

// UploadFile stores the file on the printer and returns its path there.
// An empty filename falls back to a fixed upload name.
func (p *Printer) UploadFile(r io.Reader, filename string) (string, error) {
	if filename == "" {
		filename = defaultUploadName
	}
	conn, err := p.ftpConnect()
	if err != nil {
		return "", err
	}
	defer conn.Quit()

	path := "/" + strings.TrimPrefix(filename, "/")
	if err := conn.Stor(path, r); err != nil {
		return "", fmt.Errorf("ftps store %s: %w", path, err)
	}
	return path, nil
}

// DeleteFile removes a file from the printer and returns the path it
// removed.
func (p *Printer) DeleteFile(path string) (string, error) {
	conn, err := p.ftpConnect()
	if err != nil {
		return "", err
	}
	defer conn.Quit()

	if err := conn.Delete(path); err != nil {
		return "", fmt.Errorf("ftps delete %s: %w", path, err)
	}
	return path, nil
}
