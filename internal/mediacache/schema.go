package mediacache

const schemaSQL = `
CREATE TABLE IF NOT EXISTS timeline_images (
    year                 INTEGER PRIMARY KEY,
    image_url            TEXT NOT NULL,
    generated_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS vision_boards (
    year                 INTEGER NOT NULL,
    day_type             TEXT NOT NULL,
    idx                  INTEGER NOT NULL,
    image_url            TEXT NOT NULL,
    scene_description    TEXT NOT NULL,
    generated_at         TEXT NOT NULL,
    PRIMARY KEY (year, day_type, idx)
);

CREATE INDEX IF NOT EXISTS idx_vision_boards_key ON vision_boards(year, day_type);
`
